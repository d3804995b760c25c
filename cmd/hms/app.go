package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jwalitptl/hms/internal/config"
	"github.com/jwalitptl/hms/internal/console"
	"github.com/jwalitptl/hms/internal/repository/file"
	"github.com/jwalitptl/hms/internal/repository/memory"
	"github.com/jwalitptl/hms/internal/service/appointment"
	"github.com/jwalitptl/hms/internal/service/audit"
	"github.com/jwalitptl/hms/internal/service/disease"
	"github.com/jwalitptl/hms/internal/service/doctor"
	"github.com/jwalitptl/hms/internal/service/patient"
	"github.com/jwalitptl/hms/internal/worker"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/logger"
	"github.com/jwalitptl/hms/pkg/metrics"
)

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.dataFile != "" {
		cfg.DataFile = flags.dataFile
	}
	return cfg, nil
}

// newLogger sends logs to the configured file, or stderr, so they never mix
// with the menu on stdout.
func newLogger(cfg config.LogConfig) (*logger.Logger, func(), error) {
	if cfg.File == "" {
		return logger.NewLogger(&logger.Config{Level: logger.ParseLevel(cfg.Level), Output: os.Stderr}), func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := logger.NewLogger(&logger.Config{Level: logger.ParseLevel(cfg.Level), Output: f, NoColor: true})
	return log, func() { f.Close() }, nil
}

func runConsole(ctx context.Context, flags *rootFlags, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New("hms")
	store := memory.NewStore(cfg.Limits)
	persister := file.NewPersister(cfg.DataFile, store, m, log)
	startup := loadStore(ctx, persister, log)

	auditor := audit.NewService(log)
	patientRepo := memory.NewPatientRepository(store)
	doctorRepo := memory.NewDoctorRepository(store)
	diseaseRepo := memory.NewDiseaseRepository(store)
	appointmentRepo := memory.NewAppointmentRepository(store)

	services := console.Services{
		Patients:     patient.NewService(patientRepo, doctorRepo, auditor, m, log),
		Doctors:      doctor.NewService(doctorRepo, auditor, m, log),
		Diseases:     disease.NewService(diseaseRepo, auditor, m, log),
		Appointments: appointment.NewService(appointmentRepo, patientRepo, doctorRepo, auditor, m, log),
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go worker.NewAutosaveWorker(persister, cfg.AutosaveInterval, log).Start(workerCtx)

	c := console.New(in, out, services, persister, console.Options{Pause: cfg.Console.Pause, Logger: log})
	c.Welcome(startup)

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		// The console is blocked on input; save on its behalf.
		log.Warn("interrupted, saving before exit")
		err = persister.Save(context.WithoutCancel(ctx))
		fmt.Fprintln(out)
	}

	cancelWorker()
	logSummary(log, m)
	return err
}

// loadStore loads the data file into the store. A file that cannot be used
// is moved aside when it is corrupt, and the session starts empty.
func loadStore(ctx context.Context, persister *file.Persister, log *logger.Logger) console.Startup {
	_, statErr := os.Stat(persister.Path())
	startup := console.Startup{FileFound: !errors.Is(statErr, fs.ErrNotExist)}

	counts, err := persister.Load(ctx)
	if err == nil {
		startup.Counts = counts
		return startup
	}

	startup.LoadErr = err
	if apperrors.HasCode(err, apperrors.ErrCorruptData) {
		dest, qerr := persister.Quarantine()
		if qerr != nil {
			log.Error(qerr, "failed to quarantine data file")
		} else {
			startup.QuarantinedTo = dest
		}
	}
	return startup
}

func logSummary(log *logger.Logger, m *metrics.Metrics) {
	summary, err := m.Summary()
	if err != nil {
		log.Error(err, "failed to gather metrics")
		return
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	event := log.Zerolog().Info()
	for _, k := range keys {
		event = event.Float64(k, summary[k])
	}
	event.Msg("session metrics")
}
