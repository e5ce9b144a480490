package platform

import (
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// Calls understood by the platform, as InformationType/OperationType pairs.
const (
	infoUser      = "User"
	infoProduct   = "Product"
	infoAlarmType = "AlarmType"
	infoSafeZone  = "SafeZone"
	infoRoute     = "Route"

	opSignIn       = "SignIn"
	opGetMyTracker = "GetMyTracker"
	opQuery        = "Query"
)

type signInArgs struct {
	UserName string `json:"UserName"`
	Password string `json:"Password"`
}

type trackerArgs struct {
	TrackerType string `json:"TrackerType"`
}

// signInData is the Data of a successful User/SignIn.
type signInData struct {
	SessionID model.Value `json:"SessionID"`
	UserName  model.Value `json:"UserName"`
	Password  model.Value `json:"Password"`
}

// transfer is one entry of GetMyTracker's Data.Transfer.
type transfer struct {
	ServerIP      model.Value `json:"ServerIP"`
	WsOutputPort  model.Value `json:"WsOutputPort"`
	WssDomainName model.Value `json:"WssDomainName"`
	WssOutputPort model.Value `json:"WssOutputPort"`
}

// trackerData is the Data of Product/GetMyTracker.
type trackerData struct {
	Transfer []transfer       `json:"Transfer"`
	Tracker  []map[string]any `json:"Tracker"`
}

// datasetCall describes how one reference dataset is fetched and keyed.
type datasetCall struct {
	info, op  string
	keyField  string
	nameField string
}

var datasetCalls = map[model.Dataset]datasetCall{
	model.DatasetVehicles:   {info: infoProduct, op: opGetMyTracker, keyField: "SystemNo", nameField: "Name"},
	model.DatasetAlarmTypes: {info: infoAlarmType, op: opQuery, keyField: "AlarmTypeID", nameField: "Content"},
	model.DatasetGeofences:  {info: infoSafeZone, op: opQuery, keyField: "ZoneID", nameField: "ZoneName"},
	model.DatasetRoutes:     {info: infoRoute, op: opQuery, keyField: "RouteID", nameField: "RouteName"},
}
