package authstub

// ResCode is the business status carried in every response envelope. HTTP
// status is always 200; clients look at code instead.
type ResCode int64

const (
	CodeSuccess ResCode = 1000 + iota
	CodeInvalidParam
	CodeUserExist
	CodeUserNotExist
	CodeInvalidPassword
	CodeServerBusy
)

var codeMsgMap = map[ResCode]string{
	CodeSuccess:         "success",
	CodeInvalidParam:    "invalid request parameters",
	CodeUserExist:       "username already exists",
	CodeUserNotExist:    "username does not exist",
	CodeInvalidPassword: "invalid username or password",
	CodeServerBusy:      "server busy",
}

// Msg returns the message for c, falling back to the server busy text.
func (c ResCode) Msg() string {
	msg, ok := codeMsgMap[c]
	if !ok {
		msg = codeMsgMap[CodeServerBusy]
	}
	return msg
}

// Envelope is the body of every response.
type Envelope struct {
	Code ResCode     `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Token    string `json:"token"`
}
