// Package xmlrpc holds the small XML-RPC subset spoken by pingback clients and servers.
package xmlrpc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Method is the only XML-RPC method the pingback protocol defines
const Method = "pingback.ping"

const declaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const pingTemplate = declaration + `<methodCall>
  <methodName>%s</methodName>
  <params>
    <param><value><string>%s</string></value></param>
    <param><value><string>%s</string></value></param>
  </params>
</methodCall>
`

const faultTemplate = declaration + `<methodResponse>
  <fault>
    <value>
      <struct>
        <member>
          <name>faultCode</name>
          <value><int>%d</int></value>
        </member>
        <member>
          <name>faultString</name>
          <value><string>%s</string></value>
        </member>
      </struct>
    </value>
  </fault>
</methodResponse>
`

const successTemplate = declaration + `<methodResponse>
  <params>
    <param><value><string>%s</string></value></param>
  </params>
</methodResponse>
`

// EncodePing builds the pingback.ping call announcing that source links to target
func EncodePing(source, target string) []byte {
	return []byte(fmt.Sprintf(pingTemplate, Method, escape(source), escape(target)))
}

// EncodeFault builds a methodResponse carrying a fault struct
func EncodeFault(code int, message string) []byte {
	return []byte(fmt.Sprintf(faultTemplate, code, escape(message)))
}

// EncodeSuccess builds the acknowledgement sent back once a pingback is verified
func EncodeSuccess(source, permalink string) []byte {
	return []byte(fmt.Sprintf(successTemplate, escape(SuccessMessage(source, permalink))))
}

// SuccessMessage is the acknowledgement text embedded in a success response
func SuccessMessage(source, permalink string) string {
	return "Got a ping from " + source + " for " + permalink + ". Let's continue the conversation ! :-)"
}

// quotes stay literal in text content
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return textEscaper.Replace(s)
}

var (
	ErrNotResponse  = errors.New("document is not a methodResponse")
	ErrNoParams     = errors.New("methodResponse has neither params nor fault")
	ErrInvalidFault = errors.New("fault struct is missing faultCode or faultString")
)

// FaultValue is a decoded fault struct
type FaultValue struct {
	Code    int
	Message string
}

// Response is a decoded methodResponse: either string params or a fault
type Response struct {
	Params []string
	Fault  *FaultValue
}

// DecodeResponse parses a methodResponse document
func DecodeResponse(data []byte) (Response, error) {
	root, err := Decode(data)
	if err != nil {
		return Response{}, err
	}
	if root.Name != "methodResponse" {
		return Response{}, fmt.Errorf("%w: got %s", ErrNotResponse, root.Name)
	}

	if fault := root.Child("fault"); fault != nil {
		fv, err := decodeFault(fault)
		if err != nil {
			return Response{}, err
		}
		return Response{Fault: &fv}, nil
	}

	params := root.Child("params")
	if params == nil {
		return Response{}, ErrNoParams
	}
	var resp Response
	for _, p := range params.ChildrenNamed("param") {
		s, _ := StringValue(p.Child("value"))
		resp.Params = append(resp.Params, s)
	}
	return resp, nil
}

func decodeFault(fault *Node) (FaultValue, error) {
	st := fault.Child("value").Child("struct")
	if st == nil {
		return FaultValue{}, ErrInvalidFault
	}

	var (
		fv                 FaultValue
		hasCode, hasString bool
	)
	for _, m := range st.ChildrenNamed("member") {
		value := m.Child("value")
		switch m.Child("name").TrimmedText() {
		case "faultCode":
			code, err := intValue(value)
			if err != nil {
				return FaultValue{}, fmt.Errorf("parsing faultCode: %w", err)
			}
			fv.Code = code
			hasCode = true
		case "faultString":
			fv.Message, _ = StringValue(value)
			hasString = true
		}
	}
	if !hasCode || !hasString {
		return FaultValue{}, ErrInvalidFault
	}
	return fv, nil
}

func intValue(value *Node) (int, error) {
	if value == nil {
		return 0, errors.New("missing value")
	}
	for _, name := range []string{"int", "i4"} {
		if n := value.Child(name); n != nil {
			return strconv.Atoi(n.TrimmedText())
		}
	}
	return 0, errors.New("value is not an integer")
}

/* StringValue extracts the string carried by a <value> node
 * Accepts <value><string>x</string></value> and the untyped <value>x</value>,
 * which XML-RPC defines as a string as well
 */
func StringValue(value *Node) (string, bool) {
	if value == nil {
		return "", false
	}
	if s := value.Child("string"); s != nil {
		return s.Text, true
	}
	if len(value.Children) == 0 {
		return strings.TrimSpace(value.Text), true
	}
	return "", false
}
