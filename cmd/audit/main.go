package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/in/httpapi"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/in/logfile"
	memory_adapter "github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/adapter/out/report"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-audit-ledger/internal/config"
	"github.com/JoeShih716/go-audit-ledger/pkg/journal"
	"github.com/JoeShih716/go-audit-ledger/pkg/mysql"
)

const defaultConfigPath = "config/config.yaml"

type flags struct {
	configPath    string
	input         string
	format        string
	output        string
	journal       string
	verifyJournal bool
	serve         bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", defaultConfigPath, "path to the yaml config file")
	flag.StringVar(&f.input, "input", "", "transaction log to replay (\"-\" for stdin)")
	flag.StringVar(&f.format, "format", "", "report format: text, csv or json")
	flag.StringVar(&f.output, "output", "", "report output file (default stdout)")
	flag.StringVar(&f.journal, "journal", "", "audit journal file")
	flag.BoolVar(&f.verifyJournal, "verify-journal", false, "read the journal back after the replay and check it against the transaction count")
	flag.BoolVar(&f.serve, "serve", false, "serve the final state over HTTP until interrupted")
	flag.Parse()

	if err := run(f, flag.Args()); err != nil {
		slog.Error("audit failed", "error", err)
		os.Exit(1)
	}
}

func run(f flags, args []string) (err error) {
	// 1. 載入設定
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, f, args)

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 稽核日誌 (可選)
	var (
		auditJournal *journal.Journal
		bankJournal  memory_adapter.Journal
	)
	if cfg.Journal.Path != "" {
		auditJournal, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		// 寫入有緩衝，最後的 flush 失敗也必須回報
		defer func() {
			if closeErr := auditJournal.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("%w: close: %w", domain.ErrJournalWriteFailed, closeErr)
			}
		}()
		bankJournal = auditJournal
	}

	// 3. 初始化帳本與 UseCase
	bank := memory_adapter.NewBank(bankJournal, logger)
	coreUseCase := usecase.NewCoreUseCase(bank, logger)

	// 4. 重放交易日誌
	in, closeInput, err := openInput(cfg.Input.Path)
	if err != nil {
		return err
	}
	defer closeInput()

	reader := logfile.NewReader(in, logfile.WithAllowUnknownActions(cfg.Input.AllowUnknownActions))
	if _, err := coreUseCase.Replay(ctx, reader); err != nil {
		return err
	}

	// 5. 輸出報表
	reporter, err := report.New(cfg.Report.Format, cfg.Report.Output, os.Stdout)
	if err != nil {
		return err
	}
	reporters := []usecase.Reporter{reporter}

	if cfg.MySQL.Enabled {
		dbClient, err := mysql.NewClient(ctx, cfg.MySQL.Config, logger)
		if err != nil {
			return err
		}
		defer dbClient.Close()
		exporter := mysql_adapter.NewSnapshotExporter(dbClient, logger)
		if err := exporter.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		reporters = append(reporters, exporter)
	}

	if err := coreUseCase.Report(ctx, reporters...); err != nil {
		return err
	}

	if auditJournal != nil && cfg.Journal.Verify {
		if err := verifyJournal(auditJournal, bank.TransactionCount()); err != nil {
			return err
		}
		logger.Info("journal verified", "path", cfg.Journal.Path, "entries", bank.TransactionCount())
	}

	// 6. HTTP 查詢 (可選)
	if !cfg.HTTP.Enabled {
		return nil
	}
	server := httpapi.NewServer(coreUseCase, logger)
	if _, err := server.Start(cfg.HTTP.Addr); err != nil {
		return err
	}

	// Wait for interrupt
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// loadConfig 預設設定檔不存在時使用預設值
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// applyFlags 命令列參數覆蓋設定檔
func applyFlags(cfg *config.Config, f flags, args []string) {
	if f.input != "" {
		cfg.Input.Path = f.input
	} else if len(args) > 0 {
		cfg.Input.Path = args[0]
	}
	if f.format != "" {
		cfg.Report.Format = f.format
	}
	if f.output != "" {
		cfg.Report.Output = f.output
	}
	if f.journal != "" {
		cfg.Journal.Path = f.journal
	}
	if f.verifyJournal {
		cfg.Journal.Verify = true
	}
	if f.serve {
		cfg.HTTP.Enabled = true
	}
}

// verifyJournal 讀回稽核日誌，確認筆數與順序號都對得上
func verifyJournal(j *journal.Journal, want uint64) error {
	var n uint64
	err := j.ReadAll(func(raw []byte) error {
		var entry struct {
			Sequence uint64 `json:"sequence"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		n++
		if entry.Sequence != n {
			return fmt.Errorf("entry %d has sequence %d", n, entry.Sequence)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: verify: %w", domain.ErrJournalWriteFailed, err)
	}
	if n != want {
		return fmt.Errorf("%w: verify: %d entries, want %d", domain.ErrJournalWriteFailed, n, want)
	}
	return nil
}

func openInput(path string) (io.Reader, func() error, error) {
	switch path {
	case "":
		return nil, nil, errors.New("no transaction log given: use -input or a positional argument")
	case "-":
		return os.Stdin, func() error { return nil }, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open transaction log: %w", err)
	}
	return file, file.Close, nil
}
