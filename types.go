package gridplan

import "github.com/eringen/gridplan/planner"

// pickerResponse tells the browser how to open the file picker.
type pickerResponse struct {
	Target   string `json:"target"`
	Multiple bool   `json:"multiple"`
	Accept   string `json:"accept"`
	Token    string `json:"token"` // fresh per request so the same file can be re-picked
}

func newPickerResponse(req planner.PickerRequest) pickerResponse {
	return pickerResponse{
		Target:   req.Target.String(),
		Multiple: req.Multiple,
		Accept:   req.Accept,
		Token:    req.Token,
	}
}
