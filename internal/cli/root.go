// Package cli はアシスタントのコマンドラインインターフェースです。
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
)

// Opener は設定ファイルのパスからユースケースを用意します。返す関数で資源を閉じます。
type Opener func(ctx context.Context, configPath string) (assistant.UseCase, func(), error)

// App はサブコマンドが共有する依存関係です。
type App struct {
	Open Opener
	Out  io.Writer

	configPath string
}

// NewRootCmd は "staffing-assistant" コマンドとサブコマンドを構築します。
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "staffing-assistant",
		Short:         "Stellenplan-Befehle ausführen und prüfen",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")

	root.AddCommand(
		newParseCmd(app),
		newRunCmd(app),
		newInterpretCmd(app),
		newAuditCmd(app),
		newRolloverCmd(app),
	)
	return root
}

func (a *App) withUseCase(ctx context.Context, fn func(assistant.UseCase) error) error {
	if a.Open == nil {
		return fmt.Errorf("no backend configured")
	}
	uc, closeFn, err := a.Open(ctx, a.configPath)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(uc)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// describeError はエラーコードを添えたメッセージを返します。
func describeError(err error) error {
	return fmt.Errorf("%s: %w", assistant.ErrorCode(err), err)
}
