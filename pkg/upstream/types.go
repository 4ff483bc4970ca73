package upstream

import (
	"github.com/valyala/fasthttp"
)

type Connection struct {
	client  *fasthttp.Client
	headers map[string]string
}
