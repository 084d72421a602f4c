package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/console/internal/client/transport"
)

type call struct {
	path string
	opts transport.RequestOptions
}

// fakeAPI answers every call with the envelope body returned by reply.
type fakeAPI struct {
	calls []call
	reply func(path string, opts transport.RequestOptions) (string, error)
}

func (f *fakeAPI) Send(_ context.Context, path string, opts transport.RequestOptions) (transport.Outcome, error) {
	f.calls = append(f.calls, call{path: path, opts: opts})

	body := `{"status":0}`
	if f.reply != nil {
		var err error
		if body, err = f.reply(path, opts); err != nil {
			return transport.Outcome{}, err
		}
	}

	out := transport.Classify(&transport.RawResponse{StatusCode: 200, Body: []byte(body)})
	if out.Kind == transport.OutcomeBusiness {
		return out, &transport.BusinessError{Status: out.Status, Msg: out.Msg}
	}
	return out, nil
}

func (f *fakeAPI) Do(ctx context.Context, path string, opts transport.RequestOptions, out any) error {
	res, err := f.Send(ctx, path, opts)
	if err != nil {
		return err
	}
	switch res.Kind {
	case transport.OutcomeUnauthenticated:
		return &transport.UnauthenticatedError{Msg: res.Msg}
	case transport.OutcomeOK:
		if out != nil && len(res.Data) > 0 {
			return json.Unmarshal(res.Data, out)
		}
	}
	return nil
}

func fixed(body string) func(string, transport.RequestOptions) (string, error) {
	return func(string, transport.RequestOptions) (string, error) { return body, nil }
}
