package llm

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// LoggingProvider is a decorator that logs every LLM request.
type LoggingProvider struct {
	name  string
	inner Provider
}

// WithLogging wraps a Provider with request logging.
func WithLogging(name string, p Provider) Provider {
	return &LoggingProvider{name: name, inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	if err != nil {
		glog.Warningf("llm %s (%s) failed after %s: %v", l.name, l.inner.ModelID(), latency, err)
		return nil, err
	}
	glog.V(2).Infof("llm %s model=%s messages=%d in=%d out=%d latency=%s stop=%s",
		l.name, resp.Model, len(req.Messages), resp.Usage.InputTokens, resp.Usage.OutputTokens, latency, resp.StopReason)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
