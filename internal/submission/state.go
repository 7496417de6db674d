package submission

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// FailureMessage is the only error text a user ever sees. Network errors,
// non-2xx responses and malformed bodies all collapse to it.
const FailureMessage = "could not create presentation, try later"

// PlaceholderLink stands in for a success body without a presentation link.
const PlaceholderLink = "#"

// State is a snapshot of the controller. ResultLink is non-empty only in
// StatusDone and ErrorMessage only in StatusError.
type State struct {
	Status       Status
	ResultLink   string
	ErrorMessage string
}

func idle() State {
	return State{Status: StatusIdle}
}

func loading() State {
	return State{Status: StatusLoading}
}

func done(link string) State {
	if link == "" {
		link = PlaceholderLink
	}
	return State{Status: StatusDone, ResultLink: link}
}

func failed() State {
	return State{Status: StatusError, ErrorMessage: FailureMessage}
}
