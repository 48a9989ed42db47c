// Package audit はコマンド実行ごとの監査記録を扱います。
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status は実行結果の区分です。
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry は 1 回の実行試行の監査記録です。
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Site        string          `json:"site,omitempty"`
	Command     string          `json:"command"`
	Intent      string          `json:"action"`
	TargetTable string          `json:"target_table"`
	PlanYear    *int            `json:"plan_year,omitempty"`
	Status      Status          `json:"status"`
	Result      json.RawMessage `json:"result"`
}

// ErrorPayload は失敗時に Result へ入れる内容です。
type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Succeeded は成功した実行の Entry を作ります。
func Succeeded(base Entry, result any) (Entry, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Entry{}, err
	}
	base.Status = StatusOK
	base.Result = raw
	return base, nil
}

// Failed は失敗した実行の Entry を作ります。
func Failed(base Entry, cause error, code string) Entry {
	raw, err := json.Marshal(ErrorPayload{Error: cause.Error(), Code: code})
	if err != nil {
		raw = json.RawMessage(`{}`)
	}
	base.Status = StatusError
	base.Result = raw
	return base
}
