package cmd

import (
	"log"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// --- グローバル定数 ---

const (
	appName           = "paper-scraper"
	defaultTimeoutSec = 0 // 0 はタイムアウトなし
	defaultMaxRetries = 2 // feed コマンドのみで使用
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec int // --timeout HTTPリクエストのタイムアウト
	MaxRetries int // --max-retries フィード取得のリトライ回数
}

var Flags AppFlags

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）。0 の場合は応答があるまで待ち続けます",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaultMaxRetries,
		"フィード取得時のリトライ最大回数 (検索ページの取得はリトライしません)",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	if clibase.Flags.Verbose {
		log.Printf("HTTPクライアントのタイムアウト: %s, フィード取得のリトライ回数: %d", requestTimeout(), Flags.MaxRetries)
	}
	return nil
}

// requestTimeout は、--timeout を time.Duration に変換します。
func requestTimeout() time.Duration {
	if Flags.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(Flags.TimeoutSec) * time.Second
}

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		scrapeCmd,
		feedCmd,
	)
}
