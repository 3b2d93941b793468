package model

// Guide is a read-only catalog entry loaded from the content directory.
// The engine never creates or destroys guides; it only decides visibility.
type Guide struct {
	Slug        string
	Title       string
	Description string
	PDFKey      string // object key in guide storage
	MockupKey   string // preview image object key
	HTMLContent string // rendered body shown on the guide detail card

	// UnlockDay is the guide's position in the daily drip schedule;
	// zero for guides unlocked by other means.
	UnlockDay int

	// Unlocked overrides the drip schedule entirely.
	Unlocked bool

	// Premium guides additionally require a paid plan or a matching
	// entitlement; that check is outside the unlock scheduler's authority.
	Premium     bool
	Entitlement string
}

// InDrip reports whether the guide participates in the daily drip schedule.
func (g *Guide) InDrip() bool {
	return g.UnlockDay > 0
}
