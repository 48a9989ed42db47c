package audit

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sink は監査記録の書き込み先です。
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Reader は拠点ごとの最新の監査記録を返します。
type Reader interface {
	ListRecent(ctx context.Context, site string, limit int) ([]Entry, error)
}

// SinkFunc は関数を Sink として使うためのアダプタです。
type SinkFunc func(ctx context.Context, entry Entry) error

func (f SinkFunc) Record(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// NopSink は何もしない Sink です。
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) error { return nil }

// MultiSink は複数の Sink へ並行に書き込みます。すべての書き込みが終わってから戻ります。
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink は nil を除いた Sink をまとめます。
func NewMultiSink(sinks ...Sink) *MultiSink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &MultiSink{sinks: out}
}

// Len は登録済みの Sink 数です。
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

func (m *MultiSink) Record(ctx context.Context, entry Entry) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range m.sinks {
		s := s
		g.Go(func() error {
			return s.Record(gctx, entry)
		})
	}
	return g.Wait()
}
