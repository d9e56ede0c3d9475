package domain

// ServiceResponse is a raw index service reply. Non-2xx replies are still
// responses: the service reports failures in the JSON body.
type ServiceResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r ServiceResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
