package upstream

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/valyala/fasthttp"
)

func NewConnection(headers map[string]string, timeout int) *Connection {
	return &Connection{
		client: &fasthttp.Client{
			ReadTimeout: time.Duration(timeout) * time.Second,
		},
		headers: headers,
	}
}

// Fetch retrieves a remote resource, following redirects. The status code
// is returned alongside the body so callers can act on 4xx responses; the
// error is only set on transport failures or redirect loops.
func (u *Connection) Fetch(uri string) ([]byte, int, contenttype.MediaType, error) {
	const maxRedirects = 10
	currentURL := uri

	for i := 0; i < maxRedirects; i++ {
		req := fasthttp.AcquireRequest()
		req.SetRequestURI(currentURL)
		req.Header.SetMethod(fasthttp.MethodGet)

		for key, value := range u.headers {
			req.Header.Set(key, value)
		}

		resp := fasthttp.AcquireResponse()
		err := u.client.Do(req, resp)
		fasthttp.ReleaseRequest(req)
		if err != nil {
			fasthttp.ReleaseResponse(resp)
			return nil, -1, contenttype.MediaType{}, err
		}

		statusCode := resp.StatusCode()
		ct := contenttype.NewMediaType(string(resp.Header.ContentType()))

		if statusCode/100 == 3 {
			location := resp.Header.Peek("Location")
			if location == nil {
				fasthttp.ReleaseResponse(resp)
				return nil, statusCode, ct, fmt.Errorf("redirect response missing Location header")
			}

			newURL := string(location)
			if !strings.HasPrefix(newURL, "http") {
				baseURL, err := url.Parse(currentURL)
				if err != nil {
					fasthttp.ReleaseResponse(resp)
					return nil, statusCode, ct, fmt.Errorf("failed to parse base URL: %w", err)
				}
				relativeURL, err := url.Parse(newURL)
				if err != nil {
					fasthttp.ReleaseResponse(resp)
					return nil, statusCode, ct, fmt.Errorf("failed to parse relative URL: %w", err)
				}
				currentURL = baseURL.ResolveReference(relativeURL).String()
			} else {
				currentURL = newURL
			}

			fasthttp.ReleaseResponse(resp)
			continue
		}

		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		fasthttp.ReleaseResponse(resp)
		return body, statusCode, ct, nil
	}

	return nil, -1, contenttype.MediaType{}, fmt.Errorf("too many redirects")
}
