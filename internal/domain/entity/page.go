package entity

// WaitUntil names the load condition a navigation waits for.
type WaitUntil string

const (
	WaitUntilLoad        WaitUntil = "load"
	WaitUntilNetworkIdle WaitUntil = "networkidle"
)

type Screenshot struct {
	Data     []byte
	Format   string
	FullPage bool
}

const ContentMaxChars = 10000
