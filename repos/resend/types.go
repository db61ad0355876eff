package resend

// Pairing is one first round line of the knockout mail.
type Pairing struct {
	Round string
	Home  string
	Away  string
}

// Podium is one category line of the completion mail.
type Podium struct {
	Category string
	Winner   string
}

type knockoutMail struct {
	Tournament string
	Category   string
	Pairings   []Pairing
	URL        string
}

type completedMail struct {
	Tournament string
	Podiums    []Podium
	URL        string
}
