package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestNewTransport(t *testing.T) {
	cases := map[string]struct {
		Context   context.Context
		Client    ClientDo
		ExpectErr func(error) error
	}{
		"no error": {
			Context: context.Background(),
			Client: ClientDoFunc(func(*http.Request) (*http.Response, error) {
				return &http.Response{}, nil
			}),
		},
		"send error": {
			Context: context.Background(),
			Client: ClientDoFunc(func(*http.Request) (*http.Response, error) {
				return nil, fmt.Errorf("some error")
			}),
			ExpectErr: func(err error) error {
				if errors.Is(err, context.Canceled) {
					return fmt.Errorf("expect error to not be context.Canceled, %v", err)
				}
				return nil
			},
		},
		"canceled context": {
			Context: func() context.Context {
				ctx, fn := context.WithCancel(context.Background())
				fn()
				return ctx
			}(),
			Client: ClientDoFunc(func(req *http.Request) (*http.Response, error) {
				return nil, req.Context().Err()
			}),
			ExpectErr: func(err error) error {
				if !errors.Is(err, context.Canceled) {
					return fmt.Errorf("expect error to be context.Canceled, got %v", err)
				}
				return nil
			},
		},
		"context timeout": {
			Context: func() context.Context {
				ctx, fn := context.WithTimeout(context.Background(), 5*time.Millisecond)
				fn()
				return ctx
			}(),
			Client: ClientDoFunc(func(req *http.Request) (*http.Response, error) {
				select {
				case <-time.After(50 * time.Millisecond):
					return &http.Response{}, nil
				case <-req.Context().Done():
					return nil, req.Context().Err()
				}
			}),
			ExpectErr: func(err error) error {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("expect error to be context.Canceled or context.DeadlineExceeded, got %v", err)
				}
				return nil
			},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			transport := NewTransport(c.Client)
			resp, err := transport(c.Context, NewStackRequest())

			if c.ExpectErr != nil {
				if err == nil {
					t.Fatalf("expect error, got none")
				}

				if err = c.ExpectErr(err); err != nil {
					t.Fatalf("expect error match failed, %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			if _, ok := resp.(*Response); !ok {
				t.Fatalf("expect Response type, got %T", resp)
			}
		})
	}
}
