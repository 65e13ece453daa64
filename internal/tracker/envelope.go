package tracker

// fixaEnvelopeVibrato advances every channel's volume/panning envelope,
// fadeout, and auto-vibrato by one tick (spec.md §4.7 step 3). Runs on
// every tick, including tick zero, independent of the effect interpreter.
func (r *Replayer) fixaEnvelopeVibrato() {
	for i := range r.Channels {
		c := &r.Channels[i]
		if c.Instrument == nil {
			c.FinalVolume = 0
			continue
		}

		if c.Instrument.VolEnvelope.Enabled {
			advanceEnvelope(&c.Instrument.VolEnvelope, &c.envVolNodeIdx, &c.EnvVolCnt, &c.EnvVolIPValue, &c.EnvVolAmp, c.KeyOff)
		} else {
			c.EnvVolAmp = 1.0
		}
		if c.Instrument.PanEnvelope.Enabled {
			c.panEnvelopeActive(c.KeyOff)
		} else {
			c.EnvPanAmp = 0.5
		}

		if c.KeyOff {
			c.FadeoutAmp -= float64(c.Instrument.Fadeout) / 65536.0
			if c.FadeoutAmp < 0 {
				c.FadeoutAmp = 0
			}
		}

		applyAutoVibrato(c)

		c.FinalVolume = finalVolume(c, r.GlobVol)
		c.FinalPanning = finalPanning(c)
	}
}

// finalPanning combines the channel's set panning with the panning
// envelope's offset, scaled so the envelope can swing panning at most to
// the nearer edge (FT2's "spread" formula: room to move is 128 minus the
// distance from dead center).
func finalPanning(c *Channel) int {
	dist := c.Panning - 128
	if dist < 0 {
		dist = -dist
	}
	spread := 128 - dist
	offset := (c.EnvPanAmp - 0.5) * 2 * float64(spread)
	return clampInt(c.Panning+int(offset), 0, 255)
}

// panEnvelopeActive advances the panning envelope with its sustain check
// reading the volume envelope's SustainOn bit rather than its own
// (spec.md §9, "Open questions" — a documented original-engine quirk,
// preserved rather than fixed).
func (c *Channel) panEnvelopeActive(keyOff bool) {
	e := c.Instrument.PanEnvelope
	e.SustainOn = c.Instrument.VolEnvelope.SustainOn
	advanceEnvelope(&e, &c.envPanNodeIdx, &c.EnvPanCnt, &c.EnvPanIPValue, &c.EnvPanAmp, keyOff)
}

// finalVolume combines real volume, volume-envelope amplitude, fadeout,
// and global volume into the 0..64 value the mixer ramps voices toward.
func finalVolume(c *Channel, globVol int) int {
	if c.Muted || (c.Instrument != nil && c.Instrument.Muted) {
		return 0
	}
	amp := float64(c.OutVolume) * c.EnvVolAmp * c.FadeoutAmp * (float64(globVol) / 64.0)
	return clampInt(int(amp), 0, 64)
}

// advanceEnvelope steps one envelope (volume or panning) by a tick:
// interpolates between the bracketing nodes, honoring sustain (freezes at
// the sustain node until key-off) and loop points (spec.md §4.7's
// "envVCnt, interpolation slope (y1-y0)*256/(x1-x0), envVIPValue, envVAmp"
// description).
func advanceEnvelope(e *Envelope, nodeIdx *int, cnt *int, ipValue *int, amp *float64, keyOff bool) {
	if !e.Enabled || len(e.Nodes) == 0 {
		return
	}

	if e.SustainOn && !keyOff && *nodeIdx >= e.SustainIdx {
		*nodeIdx = e.SustainIdx
		*cnt = e.Nodes[e.SustainIdx].X
	}

	if *nodeIdx+1 >= len(e.Nodes) {
		*amp = float64(e.Nodes[len(e.Nodes)-1].Y) / 64.0
		return
	}

	n0, n1 := e.Nodes[*nodeIdx], e.Nodes[*nodeIdx+1]
	if *cnt == n0.X {
		*ipValue = n0.Y << 8
	}
	if n1.X > n0.X {
		*ipValue += ((n1.Y - n0.Y) * 256) / (n1.X - n0.X)
	}
	*amp = float64(*ipValue>>8) / 64.0
	*cnt++

	if *cnt >= n1.X {
		*nodeIdx++
		*cnt = n1.X
		if e.LoopOn && *nodeIdx >= e.LoopEnd {
			*nodeIdx = e.LoopStart
			*cnt = e.Nodes[e.LoopStart].X
		}
	}
}

// applyAutoVibrato modulates a channel's output period by the
// instrument's auto-vibrato (sine/square/ramp-up/ramp-down), sweeping in
// from zero depth over VibSweep ticks.
func applyAutoVibrato(c *Channel) {
	inst := c.Instrument
	if inst == nil || inst.VibDepth == 0 {
		return
	}
	c.AutoVibratoPos += inst.VibRate
	pos := (c.AutoVibratoPos >> 2) & 0x3F

	sweep := 1.0
	if inst.VibSweep > 0 {
		c.AutoVibratoSweepCnt++
		sweep = float64(c.AutoVibratoSweepCnt) / float64(inst.VibSweep)
		if sweep > 1 {
			sweep = 1
		}
	}

	delta := waveformValue(inst.VibType, pos) * inst.VibDepth / 32
	c.OutPeriod += float64(delta) * sweep
}
