package hud

// FinalePhase is one stage of the text-scroll -> image -> cast-call
// sequence (SPEC_FULL.md §10, grounded on original_source's
// f_finale.cc). Each phase advances one tic at a time from the same
// P_Ticker ordering as every other per-tic thinker — it is not an async
// task (spec.md §9's "resist modeling coroutine-ish control as async
// tasks").
type FinalePhase int

const (
	FinaleIdle FinalePhase = iota
	FinaleTextScroll
	FinaleImage
	FinaleCastCall
	FinaleDone
)

// CastMember is one entry in the bunny-hop cast call (f_finale.cc's
// cast roll): a content-identified thing shown name-then-sprite.
type CastMember struct {
	Name  string
	Thing string // content DDF thing name, looked up by the renderer
}

// Finale drives the end-of-level text/image/cast sequence. Text scrolls
// at TextSpeed characters per tic; each non-text phase holds for its
// configured tic count before advancing.
type Finale struct {
	Phase FinalePhase

	Text      string
	TextSpeed int // characters revealed per tic, f_finale.cc default is 2
	textShown int
	textHold  int // tics to sit on the fully-revealed text before advancing

	Image     *Image
	imageHold int

	Cast      []CastMember
	castIndex int
	castHold  int

	elapsed int
}

// NewFinale begins a new sequence. image may be nil to skip straight to
// the cast call (or nil cast to skip straight to Done).
func NewFinale(text string, textSpeed int, image *Image, imageHoldTics int, cast []CastMember, castHoldTics int) *Finale {
	if textSpeed <= 0 {
		textSpeed = 2
	}
	f := &Finale{
		Text: text, TextSpeed: textSpeed,
		Image: image, imageHold: imageHoldTics,
		Cast: cast, castHold: castHoldTics,
	}
	if text != "" {
		f.Phase = FinaleTextScroll
	} else if image != nil {
		f.Phase = FinaleImage
	} else if len(cast) > 0 {
		f.Phase = FinaleCastCall
	} else {
		f.Phase = FinaleDone
	}
	return f
}

// Tick advances the sequence by one tic.
func (f *Finale) Tick() {
	switch f.Phase {
	case FinaleTextScroll:
		f.tickTextScroll()
	case FinaleImage:
		f.tickImage()
	case FinaleCastCall:
		f.tickCastCall()
	}
}

func (f *Finale) tickTextScroll() {
	if f.textShown < len(f.Text) {
		f.textShown += f.TextSpeed
		if f.textShown > len(f.Text) {
			f.textShown = len(f.Text)
		}
		return
	}
	f.elapsed++
	if f.elapsed >= f.textHold {
		f.elapsed = 0
		f.advanceFromText()
	}
}

func (f *Finale) advanceFromText() {
	if f.Image != nil {
		f.Phase = FinaleImage
	} else if len(f.Cast) > 0 {
		f.Phase = FinaleCastCall
	} else {
		f.Phase = FinaleDone
	}
}

func (f *Finale) tickImage() {
	f.elapsed++
	if f.elapsed >= f.imageHold {
		f.elapsed = 0
		if len(f.Cast) > 0 {
			f.Phase = FinaleCastCall
		} else {
			f.Phase = FinaleDone
		}
	}
}

func (f *Finale) tickCastCall() {
	f.elapsed++
	if f.elapsed >= f.castHold {
		f.elapsed = 0
		f.castIndex++
		if f.castIndex >= len(f.Cast) {
			f.Phase = FinaleDone
		}
	}
}

// VisibleText returns the text revealed so far during FinaleTextScroll.
func (f *Finale) VisibleText() string {
	if f.textShown > len(f.Text) {
		return f.Text
	}
	return f.Text[:f.textShown]
}

// CurrentCast returns the cast member on screen during FinaleCastCall,
// or nil outside that phase or after the roll completes.
func (f *Finale) CurrentCast() *CastMember {
	if f.Phase != FinaleCastCall || f.castIndex >= len(f.Cast) {
		return nil
	}
	return &f.Cast[f.castIndex]
}
