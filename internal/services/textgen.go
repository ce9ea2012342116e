package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
)

// TextGen provides a client for a remote text-generation service. The service exposes two endpoints
// under a caller-supplied base URL: /generate_stream, which streams the generated text back as raw
// bytes, and /reset, which clears the backend's conversation state. Both are authenticated with a
// static bearer token.
//
// The endpoint base and token are passed per call rather than held on the client, because the user
// may change them between requests.
type TextGen struct {
	client *http.Client
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// NewTextGen creates a new TextGen instance with a default HTTP client. There is no request timeout;
// a hung connection is terminated only through context cancellation.
func NewTextGen() TextGen {
	return TextGen{
		client: &http.Client{},
	}
}

// GenerateStream requests a generation for the given prompt and streams the response back. It
// returns an iterator that yields decoded text fragments in arrival order and potential errors.
// Fragments are decoded incrementally, so a multi-byte character split across chunk boundaries is
// always yielded intact. Zero-length chunks are skipped.
//
// A non-success response status yields a *RequestError carrying the status code. Cancellation of
// the context terminates the stream without yielding an error; fragments already yielded are
// unaffected. A stream that ends before any bytes arrive yields nothing, which is valid.
func (t TextGen) GenerateStream(ctx context.Context, endpoint, token, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		jsonBody, err := json.Marshal(generateRequest{Prompt: prompt})
		if err != nil {
			yield("", fmt.Errorf("error marshaling request: %w", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			endpoint+"/generate_stream", bytes.NewReader(jsonBody))
		if err != nil {
			yield("", fmt.Errorf("error creating request: %w", err))
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := t.client.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			yield("", fmt.Errorf("error sending request: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			yield("", &RequestError{Status: resp.StatusCode})
			return
		}

		var dec utf8Decoder
		buf := make([]byte, 4096)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				if text := dec.decode(buf[:n]); text != "" {
					if !yield(text, nil) {
						return
					}
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					if text := dec.flush(); text != "" {
						yield(text, nil)
					}
					return
				}
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				yield("", fmt.Errorf("error reading response: %w", err))
				return
			}
		}
	}
}

// Reset asks the backend to clear its conversation state. It sends a bodyless POST to the /reset
// endpoint with the bearer header and returns a *RequestError for a non-success status, or a
// wrapped transport error if the request could not be completed.
func (t TextGen) Reset(ctx context.Context, endpoint, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/reset", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{Status: resp.StatusCode}
	}
	return nil
}
