package soap

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"k8s.io/utils/ptr"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

const testNS = "urn:microsoft-dynamics-schemas/page/wb_tracking_api"

const createResult = `<?xml version="1.0" encoding="utf-8"?>
<Soap:Envelope xmlns:Soap="http://schemas.xmlsoap.org/soap/envelope/">
  <Soap:Body>
    <Create_Result xmlns="urn:microsoft-dynamics-schemas/page/wb_tracking_api">
      <WB_Tracking_API><Key>12;abc</Key><System_No>8800123</System_No></WB_Tracking_API>
    </Create_Result>
  </Soap:Body>
</Soap:Envelope>`

const faultResult = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <s:Fault>
      <faultcode>a:Microsoft.Dynamics.Nav.Types.Exceptions.NavCSideException</faultcode>
      <faultstring xml:lang="en-US">The field Alarm_Type must be positive.</faultstring>
    </s:Fault>
  </s:Body>
</s:Envelope>`

func testRecord() *model.Record {
	when := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	lat := decimal.RequireFromString("24.7136")
	return &model.Record{
		SystemNo:    "8800123",
		DateTime:    &when,
		Latitude:    &lat,
		Acc:         true,
		AlarmType:   ptr.To(17),
		Arguments:   `{"Arguments":null,"Longitude":"46.6","Latitude":"24.7","OtherValues":null}`,
		VehicleNo:   "TRK-01",
		AlarmName:   "Deviation Alarm",
		AlarmTypeID: "17",
	}
}

func newTestClient(url, user, pass string) *Client {
	opts := options.NewSoapOptions()
	opts.Endpoint = url
	opts.Username = user
	opts.Password = pass
	return NewClient(opts)
}

type sentRequest struct {
	XMLName xml.Name
	Body    struct {
		Create struct {
			XMLName xml.Name
			Record  struct {
				SystemNo  string `xml:"System_No"`
				DateTime  string `xml:"Date_x0026_Time"`
				Latitude  string `xml:"Latitude"`
				Longitude *string
				Acc       string `xml:"Acc"`
				AlarmType string `xml:"Alarm_Type"`
				Arguments string `xml:"Arguments"`
				VehicleNo string `xml:"Vehicle_No"`
				AlarmName string `xml:"Alarm_Name"`
			} `xml:"WB_Tracking_API"`
		} `xml:"Create"`
	} `xml:"Body"`
}

func TestSendCreatesEntry(t *testing.T) {
	var got sentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if action := r.Header.Get("SOAPAction"); action != `"`+testNS+`:Create"` {
			t.Errorf("SOAPAction = %s", action)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
			t.Errorf("Content-Type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := xml.Unmarshal(body, &got); err != nil {
			t.Errorf("request is not XML: %v\n%s", err, body)
		}
		_, _ = w.Write([]byte(createResult))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, "", "").Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got.XMLName.Space != envelopeNS || got.XMLName.Local != "Envelope" {
		t.Errorf("envelope = %+v", got.XMLName)
	}
	create := got.Body.Create
	if create.XMLName.Space != testNS {
		t.Errorf("Create namespace = %q", create.XMLName.Space)
	}
	rec := create.Record
	if rec.SystemNo != "8800123" || rec.DateTime != "2024-03-05T14:07:09" || rec.Latitude != "24.7136" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Longitude != nil {
		t.Errorf("empty Longitude sent as %q", *rec.Longitude)
	}
	if rec.Acc != "true" || rec.AlarmType != "17" || rec.VehicleNo != "TRK-01" || rec.AlarmName != "Deviation Alarm" {
		t.Errorf("record = %+v", rec)
	}
	if !strings.Contains(rec.Arguments, `"Longitude":"46.6"`) {
		t.Errorf("Arguments = %s", rec.Arguments)
	}
}

func TestSendFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(faultResult))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, "", "").Send(context.Background(), testRecord())
	if !core.IsProtocol(err) {
		t.Fatalf("Send() error = %v, want protocol error", err)
	}
	if !strings.Contains(err.Error(), "The field Alarm_Type must be positive.") {
		t.Fatalf("error does not carry the faultstring: %v", err)
	}
}

func TestSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, "", "").Send(context.Background(), testRecord())
	if !core.IsProtocol(err) || !strings.Contains(err.Error(), "503") {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestClient(url, "", "").Send(context.Background(), testRecord())
	if !core.IsTransport(err) {
		t.Fatalf("Send() error = %v, want transport error", err)
	}
}

func TestSendFallsBackToBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="nav"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if user != `CORP\svc-tracking` || pass != "secret" {
			t.Errorf("credentials = %q/%q", user, pass)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "<System_No>8800123</System_No>") {
			t.Errorf("body lost on retry: %s", body)
		}
		_, _ = w.Write([]byte(createResult))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, `CORP\svc-tracking`, "secret").Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := formatDateTime(nil); got != "" {
		t.Errorf("formatDateTime(nil) = %q", got)
	}
	naive := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	if got := formatDateTime(&naive); got != "2024-03-05T14:07:09" {
		t.Errorf("formatDateTime(utc) = %q", got)
	}
	zoned := time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("", 3*3600))
	if got := formatDateTime(&zoned); got != "2024-03-05T14:07:09+03:00" {
		t.Errorf("formatDateTime(+03:00) = %q", got)
	}
}
