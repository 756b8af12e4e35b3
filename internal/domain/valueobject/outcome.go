package valueobject

import "github.com/lite-lake/namesilo-ddns/internal/domain/entity"

type Action int

const (
	ActionUnchanged Action = iota
	ActionCreated
	ActionUpdated
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionUnchanged:
		return "UNCHANGED"
	case ActionCreated:
		return "CREATED"
	case ActionUpdated:
		return "UPDATED"
	case ActionFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of reconciling one (domain, record type) pair.
// Previous is empty when no record existed.
type Outcome struct {
	Domain    string
	Subdomain string
	Type      entity.DNSRecordType
	Previous  string
	New       string
	Action    Action
	Err       error
	DryRun    bool
}

func (o Outcome) FQDN() string {
	return entity.FullDomain(o.Subdomain, o.Domain)
}

func (o Outcome) HasPrevious() bool {
	return o.Previous != ""
}

func (o Outcome) Changed() bool {
	return o.Action == ActionCreated || o.Action == ActionUpdated
}

type Outcomes []Outcome

func (s Outcomes) Count(action Action) int {
	n := 0
	for _, o := range s {
		if o.Action == action {
			n++
		}
	}
	return n
}

func (s Outcomes) HasChanges() bool {
	for _, o := range s {
		if o.Changed() {
			return true
		}
	}
	return false
}
