package stream

import (
	"encoding/json"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// heartbeatFrame keeps the stream session alive.
var heartbeatFrame = []byte(`{"SignalName":"99"}#`)

// credential is the login message sent first on every connection.
type credential struct {
	ClientID    string   `json:"ClientID"`
	SignalName  string   `json:"SignalName"`
	LoginType   string   `json:"LoginType"`
	UserID      string   `json:"UserID"`
	Password    string   `json:"Password"`
	ClientType  string   `json:"ClientType"`
	DataIP      string   `json:"DataIP"`
	DataTypeReq []string `json:"DataTypeReq"`
}

// credentialFrame encodes the login message for id, delimiter included.
func credentialFrame(id model.Identity) ([]byte, error) {
	b, err := json.Marshal(credential{
		ClientID:    id.SessionID,
		SignalName:  "00",
		LoginType:   "0",
		UserID:      id.UserName,
		Password:    id.Password,
		ClientType:  "4",
		DataIP:      "",
		DataTypeReq: []string{},
	})
	if err != nil {
		return nil, err
	}
	return append(b, Delimiter), nil
}
