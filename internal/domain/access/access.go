// Package access defines the outcome of a host access check.
package access

// Outcome is the per-item decision made by the host at query time.
type Outcome string

const (
	// Granted allows the item to be returned.
	Granted Outcome = "granted"
	// Denied hides the item from the requester.
	Denied Outcome = "denied"
	// Deleted marks an item that no longer exists on the host.
	Deleted Outcome = "deleted"
)

// IsValid reports whether o is a known outcome.
func (o Outcome) IsValid() bool {
	switch o {
	case Granted, Denied, Deleted:
		return true
	}
	return false
}

// Parse converts a string to an Outcome. Unknown values are Denied.
func Parse(s string) Outcome {
	o := Outcome(s)
	if !o.IsValid() {
		return Denied
	}
	return o
}
