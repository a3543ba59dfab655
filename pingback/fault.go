package pingback

import "fmt"

/* Fault is one entry of the pingback fault taxonomy
 * Codes are wire constants shared with every deployed implementation, never renumber them
 */
type Fault struct {
	Code    int
	Message string
}

var (
	Generic           = Fault{Code: 0, Message: ""}
	URIDontExist      = Fault{Code: 16, Message: "The source URI does not exist."}
	NoLinkURI         = Fault{Code: 17, Message: "The source URI dont contain link to the target."}
	TargetDontExist   = Fault{Code: 32, Message: "The specified target URI does not exist."}
	TargetNotUsable   = Fault{Code: 33, Message: "The specified target URI cannot be used as a target."}
	AlreadyRegistered = Fault{Code: 48, Message: "The pingback has already been registered."}
	Denied            = Fault{Code: 49, Message: "Access denied."}
	CanComplete       = Fault{Code: 50, Message: "Server was unable to complete the request"}
)

// Faults lists the whole taxonomy in code order
func Faults() []Fault {
	return []Fault{
		Generic,
		URIDontExist,
		NoLinkURI,
		TargetDontExist,
		TargetNotUsable,
		AlreadyRegistered,
		Denied,
		CanComplete,
	}
}

// FaultByCode returns the fault registered under code
func FaultByCode(code int) (Fault, bool) {
	for _, f := range Faults() {
		if f.Code == code {
			return f, true
		}
	}
	return Fault{}, false
}

// Error implements error so faults can travel through normal error returns
func (f Fault) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("pingback fault %d", f.Code)
	}
	return fmt.Sprintf("pingback fault %d: %s", f.Code, f.Message)
}
