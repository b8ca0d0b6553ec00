package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"smartmilk/internal/domain/cows"
	"smartmilk/internal/domain/herd"
	"smartmilk/internal/router"

	"github.com/spf13/cobra"
)

var (
	seedOwner    string
	evalWorkers  int
	evalExtended bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		if cfg.DB.DSN == "" {
			return errors.New("db.dsn (DB_DSN) is required")
		}
		db, err := openDB(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		return db.Close()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <cows.json>",
	Short: "Load cows for an owner from a JSON file",
	Long: `Carga un lote de vacas para un dueño. Las vacas cuyo nombre ya existe
se saltean, así que el comando se puede repetir sin duplicar.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <snapshots.json>",
	Short: "Evaluate measurements and print alerts and recommendations",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "Owner user id")
	_ = seedCmd.MarkFlagRequired("owner")

	evaluateCmd.Flags().IntVar(&evalWorkers, "workers", 0, "Evaluation workers (0 = rules.workers)")
	evaluateCmd.Flags().BoolVar(&evalExtended, "extended", false, "Add fat, lactose and pH rules")
}

// seedCow es el formato de archivo del front (camelCase).
type seedCow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	LactationStage string  `json:"lactationStage"`
	Photo          string  `json:"photo"`
	MilkVolume     float64 `json:"milkVolume"`
	FatPercent     float64 `json:"fatPercent"`
	ProteinPercent float64 `json:"proteinPercent"`
	LactosePercent float64 `json:"lactosePercent"`
	PH             float64 `json:"ph"`
}

func readSeedFile(path string) ([]seedCow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSeed(f)
}

func decodeSeed(r io.Reader) ([]seedCow, error) {
	var items []seedCow
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode cows: %w", err)
	}
	return items, nil
}

func toCreateInputs(items []seedCow) []cows.CreateInput {
	out := make([]cows.CreateInput, 0, len(items))
	for _, it := range items {
		out = append(out, cows.CreateInput{
			Name:           it.Name,
			Age:            it.Age,
			LactationStage: it.LactationStage,
			Photo:          it.Photo,
			MilkVolume:     it.MilkVolume,
			FatPercent:     it.FatPercent,
			ProteinPercent: it.ProteinPercent,
			LactosePercent: it.LactosePercent,
			PH:             it.PH,
		})
	}
	return out
}

// toSnapshots usa el id del archivo o, si falta, el siguiente COWnnn libre
// (sin pisar ids explícitos de otras filas).
func toSnapshots(items []seedCow) []herd.CowSnapshot {
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		if id := strings.TrimSpace(it.ID); id != "" {
			taken[id] = struct{}{}
		}
	}

	var next int64
	out := make([]herd.CowSnapshot, 0, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			for {
				next++
				id = cows.FormatID(next)
				if _, dup := taken[id]; !dup {
					break
				}
			}
			taken[id] = struct{}{}
		}
		out = append(out, herd.CowSnapshot{
			ID:             id,
			Name:           strings.TrimSpace(it.Name),
			MilkVolume:     it.MilkVolume,
			FatPercent:     it.FatPercent,
			ProteinPercent: it.ProteinPercent,
			LactosePercent: it.LactosePercent,
			PH:             it.PH,
		})
	}
	return out
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	owner := strings.TrimSpace(seedOwner)
	if owner == "" {
		return errors.New("--owner is required")
	}

	items, err := readSeedFile(args[0])
	if err != nil {
		return err
	}

	db, err := openDB(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if db == nil {
		log.Warn("no DSN configured, seeding in-memory store (data is discarded on exit)", nil)
	} else {
		defer db.Close()
	}

	app := router.New(router.Options{Logger: log, DB: db})
	res, err := app.Cows.Import(cmd.Context(), owner, toCreateInputs(items))
	if err != nil {
		return err
	}

	log.Info("seed completed", map[string]any{
		"owner":   owner,
		"created": len(res.Created),
		"skipped": res.Skipped,
	})
	return nil
}

// evaluationOutput usa las mismas claves snake_case que /farm/assess.
type evaluationOutput struct {
	Stats           statsOutput            `json:"stats"`
	Alerts          []alertOutput          `json:"alerts"`
	Recommendations []recommendationOutput `json:"recommendations"`
}

type statsOutput struct {
	TotalCows             int     `json:"total_cows"`
	TotalMilk             float64 `json:"total_milk"`
	AverageMilkVolume     float64 `json:"average_milk_volume"`
	AverageFatPercent     float64 `json:"average_fat_percent"`
	AverageProteinPercent float64 `json:"average_protein_percent"`
	AverageLactosePercent float64 `json:"average_lactose_percent"`
	AveragePH             float64 `json:"average_ph"`
	AlertCount            int     `json:"alert_count"`
	DangerCount           int     `json:"danger_count"`
	WarningCount          int     `json:"warning_count"`
}

type alertOutput struct {
	CowID     string            `json:"cow_id"`
	CowName   string            `json:"cow_name"`
	Message   herd.AlertMessage `json:"message"`
	Severity  herd.Severity     `json:"severity"`
	Timestamp time.Time         `json:"timestamp"`
}

type recommendationOutput struct {
	CowID    string        `json:"cow_id"`
	Message  string        `json:"message"`
	Priority herd.Priority `json:"priority"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadRuntime()
	if err != nil {
		return err
	}
	items, err := readSeedFile(args[0])
	if err != nil {
		return err
	}

	workers := evalWorkers
	if workers <= 0 {
		workers = cfg.Rules.Workers
	}
	out, err := evaluate(cmd.Context(), toSnapshots(items), herd.RulesFor(cfg.Rules.Extended || evalExtended), workers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func evaluate(ctx context.Context, snaps []herd.CowSnapshot, rules []herd.Rule, workers int) (evaluationOutput, error) {
	alerts, err := herd.NewEvaluator(rules...).EvaluateConcurrent(ctx, snaps, workers)
	if err != nil {
		return evaluationOutput{}, err
	}
	lookup := herd.LookupFrom(snaps)
	st := herd.ComputeStats(snaps, alerts)

	out := evaluationOutput{
		Stats: statsOutput{
			TotalCows:             st.TotalCows,
			TotalMilk:             st.TotalMilk,
			AverageMilkVolume:     st.AverageMilkVolume,
			AverageFatPercent:     st.AverageFatPercent,
			AverageProteinPercent: st.AverageProteinPercent,
			AverageLactosePercent: st.AverageLactosePercent,
			AveragePH:             st.AveragePH,
			AlertCount:            st.AlertCount,
			DangerCount:           st.DangerCount,
			WarningCount:          st.WarningCount,
		},
		Alerts:          make([]alertOutput, 0, len(alerts)),
		Recommendations: make([]recommendationOutput, 0),
	}
	for _, a := range alerts {
		name := herd.UnknownCowName
		if c, ok := lookup(a.CowID); ok {
			name = c.Name
		}
		out.Alerts = append(out.Alerts, alertOutput{
			CowID:     a.CowID,
			CowName:   name,
			Message:   a.Message,
			Severity:  a.Severity,
			Timestamp: a.Timestamp,
		})
	}
	for _, r := range herd.NewSynthesizer().Synthesize(alerts, lookup) {
		out.Recommendations = append(out.Recommendations, recommendationOutput{
			CowID:    r.CowID,
			Message:  r.Message,
			Priority: r.Priority,
		})
	}
	return out, nil
}
