// Package app wires configuration, the warehouse client, the vision
// classifier, the engine and the outputs into the scheduled batch job.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"storebot/internal/batch"
	"storebot/internal/classify"
	"storebot/internal/config"
	"storebot/internal/domain"
	"storebot/internal/httpx"
	"storebot/internal/modereport"
	"storebot/internal/notify"
	"storebot/internal/store"
	"storebot/internal/vision"
)

// Job holds everything one batch run needs. Built once at startup and
// reused across scheduled runs.
type Job struct {
	cfg      config.Config
	db       *sql.DB
	mode     *modereport.Client
	runner   *batch.Runner
	notifier *notify.Notifier
	usage    *vision.Usage
}

func Main() {
	cfg := config.LoadConfig()
	httpx.ConfigureTimeout(cfg.ExternalHTTPTimeoutSeconds)

	db, err := store.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.OutputDir, 0755)

	job, err := NewJob(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build job: %v", err)
	}

	log.Println("Starting store photo classification bot...")
	if strings.TrimSpace(cfg.Schedule) == "" {
		if err := job.RunOnce(context.Background()); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		return
	}
	runScheduled(job)
}

func NewJob(cfg config.Config, db *sql.DB) (*Job, error) {
	lex := config.DefaultLexicons()
	if strings.TrimSpace(cfg.LexiconPath) != "" {
		loaded, err := config.LoadLexicons(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("loading lexicons: %w", err)
		}
		lex = loaded
	}
	engine := classify.NewEngine(lex, cfg.Gates, cfg.HoursPolicy)

	usage := &vision.Usage{}
	var classifier vision.Classifier
	switch cfg.VisionProvider {
	case "openai":
		classifier = vision.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.VisionModel, cfg.VisionMaxTokens, httpx.Client(), usage)
	default:
		classifier = vision.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.VisionModel, cfg.VisionMaxTokens, usage)
	}
	log.Printf("vision provider=%s model=%s", cfg.VisionProvider, cfg.VisionModel)

	runner := batch.NewRunner(classifier, engine,
		time.Duration(cfg.ClassifyDelayMillis)*time.Millisecond,
		cfg.MinImageConfidence, promptBuilder(cfg))

	mode := modereport.NewClient(
		cfg.ModeBaseURL, cfg.ModeAccount, cfg.ModeToken, cfg.ModeSecret,
		cfg.ModeReportID, cfg.ModeQueryID, httpx.Client(),
		time.Duration(cfg.ModePollIntervalSeconds)*time.Second,
		time.Duration(cfg.ModePollTimeoutSeconds)*time.Second,
	)

	api := slack.New(cfg.SlackBotToken)
	notifier := notify.NewNotifier(api, cfg.SlackChannelID)

	return &Job{
		cfg:      cfg,
		db:       db,
		mode:     mode,
		runner:   runner,
		notifier: notifier,
		usage:    usage,
	}, nil
}

// promptBuilder captures the config so the holiday block switches on
// automatically when the window opens.
func promptBuilder(cfg config.Config) func(obs domain.StoreObservation) string {
	return func(obs domain.StoreObservation) string {
		holidayWindow := cfg.HolidayWindowOpen(time.Now().In(cfg.Location))
		var holidays []domain.Holiday
		if holidayWindow {
			holidays = domain.HolidaySet()
		}
		return vision.BuildPrompt(obs.StoreHours, holidayWindow, holidays)
	}
}

// RunOnce executes one full fetch-classify-publish cycle.
func (j *Job) RunOnce(ctx context.Context) error {
	runDate := time.Now().In(j.cfg.Location)
	*j.usage = vision.Usage{}

	runToken, err := j.mode.SubmitRun(ctx)
	if err != nil {
		return fmt.Errorf("submitting report run: %w", err)
	}
	if err := j.mode.PollRun(ctx, runToken); err != nil {
		return fmt.Errorf("waiting for report run: %w", err)
	}
	csvData, err := j.mode.FetchResultCSV(ctx, runToken)
	if err != nil {
		return fmt.Errorf("fetching report result: %w", err)
	}
	observations, err := modereport.DecodeObservations(csvData)
	if err != nil {
		return fmt.Errorf("decoding observations: %w", err)
	}
	log.Printf("run start date=%s observations=%d", runDate.Format("2006-01-02"), len(observations))

	annotated := j.runner.Run(ctx, observations)
	tables, summary := batch.Partition(annotated, j.cfg.HolidaySeasonYear)

	workbookPath := ""
	if summary.Total > 0 {
		workbookPath, err = notify.WriteWorkbook(j.cfg.OutputDir, runDate, tables)
		if err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
	}

	runID, err := store.RecordRun(j.db, runDate, summary, j.usage.TotalTokens(), workbookPath)
	if err != nil {
		log.Printf("run record error: %v", err)
	} else if err := store.RecordClassifications(j.db, runID, annotated); err != nil {
		log.Printf("run classification record error: %v", err)
	}

	if err := j.notifier.SendDigest(runDate, summary, workbookPath, *j.usage); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	log.Printf("run done date=%s stores=%d tokens=%d file=%s",
		runDate.Format("2006-01-02"), summary.Total, j.usage.TotalTokens(), workbookPath)
	return nil
}

// runScheduled blocks forever, firing RunOnce on the configured cron
// schedule. The schedule is a standard 5-field cron expression.
// Examples: "0 9 * * *" (daily 9am), "0 9 * * 1-5" (weekdays 9am).
func runScheduled(job *Job) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(job.cfg.Schedule)
	if err != nil {
		log.Fatalf("Invalid schedule '%s': %v", job.cfg.Schedule, err)
	}
	log.Printf("Runs scheduled (cron: %s, tz: %s)", job.cfg.Schedule, job.cfg.Location)

	for {
		now := time.Now().In(job.cfg.Location)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		if err := job.RunOnce(context.Background()); err != nil {
			log.Printf("Scheduled run error: %v", err)
		}
	}
}
