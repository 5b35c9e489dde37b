package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient dumps every request/response pair the client makes to
// output, named "<counter>-<status>.txt". A nil output is a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		name := fmt.Sprintf("%04d-%d.txt", id, res.StatusCode())
		output.Write(name, formatHttpMessage(res))
		slog.DebugContext(
			res.Request.Context(), "dumped http message",
			"method", res.Request.Method,
			"url", Redact(res.Request.URL),
			"file", name,
		)
		return nil
	})
}
