package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/pkg/metrics"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var errNotSignedIn = errors.New("not signed in")

var _ core.ReferenceSource = (*Session)(nil)

// Session holds the platform token and stream identity for the process.
type Session struct {
	client   *Client
	username string
	password string

	mu       sync.RWMutex
	token    string
	identity model.Identity
}

// NewSession creates a signed-out session for the configured account.
func NewSession(opts *options.PlatformOptions) *Session {
	return &Session{
		client:   NewClient(opts),
		username: opts.Username,
		password: opts.Password,
	}
}

// SignIn authenticates and stores the returned token and identity.
func (s *Session) SignIn(ctx context.Context) error {
	op := infoUser + "/" + opSignIn

	env, err := s.client.Submit(ctx, "", infoUser, opSignIn, signInArgs{UserName: s.username, Password: s.password})
	if err != nil {
		if core.IsProtocol(err) {
			// An undecodable sign-in answer leaves us without credentials.
			return core.AuthError(op, err)
		}
		return err
	}
	if !env.OK() {
		return core.AuthError(op, rejection(env))
	}
	if env.Token == "" {
		return core.AuthError(op, errors.New("response carries no token"))
	}

	var data signInData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return core.AuthError(op, fmt.Errorf("failed to decode session data: %w", err))
		}
	}

	s.mu.Lock()
	s.token = env.Token
	s.identity = model.Identity{
		SessionID: data.SessionID.Trimmed(),
		UserName:  data.UserName.String(),
		Password:  data.Password.String(),
	}
	s.mu.Unlock()

	log.Info("Signed in to platform", "user", s.username, "sessionID", data.SessionID.Trimmed())
	return nil
}

// SignedIn reports whether a token is held.
func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Identity returns the stream credentials of the current session, falling back
// to the configured account for fields the platform left empty.
func (s *Session) Identity() (model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return model.Identity{}, core.AuthError("identity", errNotSignedIn)
	}

	id := s.identity
	if id.UserName == "" {
		id.UserName = s.username
	}
	if id.Password == "" {
		id.Password = s.password
	}
	return id, nil
}

func (s *Session) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// call submits an authenticated call and returns the Data of a successful envelope.
func (s *Session) call(ctx context.Context, info, op string, args any) (json.RawMessage, error) {
	name := info + "/" + op

	token := s.currentToken()
	if token == "" {
		return nil, core.AuthError(name, errNotSignedIn)
	}

	env, err := s.client.Submit(ctx, token, info, op, args)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, core.AuthError(name, rejection(env))
	}
	return env.Data, nil
}

func (s *Session) myTracker(ctx context.Context) (*trackerData, error) {
	raw, err := s.call(ctx, infoProduct, opGetMyTracker, trackerArgs{TrackerType: "0"})
	if err != nil {
		return nil, err
	}

	var data trackerData
	if err := decodeData(raw, &data); err != nil {
		return nil, core.ProtocolError(infoProduct+"/"+opGetMyTracker, err)
	}
	return &data, nil
}

// DiscoverEndpoints returns the streaming endpoints assigned to this account.
// Entries lacking a host or port for the selected scheme are skipped.
func (s *Session) DiscoverEndpoints(ctx context.Context, usePlaintext bool) ([]model.Endpoint, error) {
	data, err := s.myTracker(ctx)
	if err != nil {
		return nil, err
	}

	endpoints := make([]model.Endpoint, 0, len(data.Transfer))
	for i, t := range data.Transfer {
		ep := model.Endpoint{Scheme: "wss", Host: t.WssDomainName.Trimmed(), Port: t.WssOutputPort.Trimmed()}
		if usePlaintext {
			ep = model.Endpoint{Scheme: "ws", Host: t.ServerIP.Trimmed(), Port: t.WsOutputPort.Trimmed()}
		}
		if ep.Host == "" || ep.Port == "" {
			log.Warn("Skipping incomplete transfer endpoint", "index", i, "plaintext", usePlaintext)
			continue
		}
		endpoints = append(endpoints, ep)
	}

	return endpoints, nil
}

// RefreshReference fetches the complete current snapshot of a dataset.
func (s *Session) RefreshReference(ctx context.Context, ds model.Dataset) (refs []model.Reference, err error) {
	defer func() {
		metrics.ReferenceRefresh.WithLabelValues(string(ds), metrics.Result(err)).Inc()
	}()

	dc, ok := datasetCalls[ds]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", ds)
	}

	var items []map[string]any
	if ds == model.DatasetVehicles {
		data, err := s.myTracker(ctx)
		if err != nil {
			return nil, err
		}
		items = data.Tracker
	} else {
		raw, err := s.call(ctx, dc.info, dc.op, struct{}{})
		if err != nil {
			return nil, err
		}
		if err := decodeData(raw, &items); err != nil {
			return nil, core.ProtocolError(dc.info+"/"+dc.op, err)
		}
	}

	refs = make([]model.Reference, 0, len(items))
	for _, item := range items {
		key := scalar(item[dc.keyField])
		if key == "" {
			continue
		}
		refs = append(refs, model.Reference{
			Key:    key,
			Name:   scalar(item[dc.nameField]),
			Fields: item,
		})
	}

	log.Debug("Reference dataset fetched", "dataset", ds, "entries", len(refs))
	return refs, nil
}

// decodeData decodes a Data payload keeping numbers exact; null decodes to the zero value.
func decodeData(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// scalar renders a decoded JSON scalar as text.
func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
