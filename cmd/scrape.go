package cmd

import (
	"fmt"
	"os"
	"os/signal"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-paper-scraper/internal/config"
	"github.com/shouni/go-paper-scraper/internal/logger"
	"github.com/shouni/go-paper-scraper/internal/pipeline"
	"github.com/shouni/go-paper-scraper/pkg/httpclient"
)

// コマンドラインフラグ変数を定義
var (
	scrapeFlags = config.Default()
	configPath  string
)

// resolveJob は、設定ファイルの値に明示的に指定されたフラグを上書きして Job を確定します。
func resolveJob(cmd *cobra.Command) (config.Job, error) {
	job := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return job, err
		}
		job = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("query") {
		job.Query = scrapeFlags.Query
	}
	if flags.Changed("pages") {
		job.Pages = scrapeFlags.Pages
	}
	if flags.Changed("source") {
		job.Source = scrapeFlags.Source
	}
	if flags.Changed("output") {
		job.Output = scrapeFlags.Output
	}
	if flags.Changed("log-level") {
		job.LogLevel = scrapeFlags.LogLevel
	}
	if clibase.Flags.Verbose {
		job.LogLevel = "debug"
	}

	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("入力値が不正です: %w", err)
	}
	return job, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Google Scholar / PubMed の検索結果から書誌情報を取得し、Excelファイルに保存します",
	Long: `検索キーワードに一致する論文のタイトル・著者・誌名・発行年・リンクを指定ページ数分取得し、
記事一覧と集計グラフ (年別件数、上位誌名、上位著者、年推移、タイトル長) を含む xlsx ファイルを作成します。
ページの取得に失敗した時点で、そのソースの残りのページは中断されます。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := resolveJob(cmd)
		if err != nil {
			return err
		}
		sel, err := job.Selection()
		if err != nil {
			return err
		}

		log := logger.New(job.LogLevel, os.Stderr)

		// Ctrl+C で実行中のリクエストを中断する
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		runner, err := pipeline.New(httpclient.New(requestTimeout()), log)
		if err != nil {
			return err
		}

		res, err := runner.Run(ctx, pipeline.Options{
			Query:     job.Query,
			Pages:     job.Pages,
			Selection: sel,
			OutputDir: job.Output,
		})
		if err != nil {
			return err
		}

		fmt.Printf("抽出が完了しました。%d 件のデータを %s に保存しました。\n", res.Articles, res.Path)
		return nil
	},
}

// bindScrapeFlags は、scrape コマンドのフラグを scrapeFlags と configPath に結び付けます。
func bindScrapeFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVarP(&scrapeFlags.Query, "query", "q", "", "論文タイトルまたはキーワード")
	f.IntVarP(&scrapeFlags.Pages, "pages", "p", scrapeFlags.Pages, "取得するページ数")
	f.StringVarP(&scrapeFlags.Source, "source", "s", scrapeFlags.Source, "取得元 (scholar, pubmed, both)")
	f.StringVarP(&scrapeFlags.Output, "output", "o", "", "出力先フォルダ (省略時はカレントディレクトリ)")
	f.StringVar(&scrapeFlags.LogLevel, "log-level", scrapeFlags.LogLevel, "ログレベル (debug, info, warn, error)")
	f.StringVarP(&configPath, "config", "c", "", "ジョブ設定ファイル (YAML)。明示したフラグが優先されます")
}

func init() {
	bindScrapeFlags(scrapeCmd)
}
