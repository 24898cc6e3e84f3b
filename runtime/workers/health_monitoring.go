package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/shirou/gopsutil"
	"github.com/shirou/gopsutil/process"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
)

// HealthMonitoringWorker samples the engine process itself: status, CPU and
// resident memory on a fixed cadence. Samples travel the telemetry channel
// like every other technical event.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	telemetryChan  chan<- event.Event
	metricInterval time.Duration
	pid            domain.PID
}

var _ contract.Worker = (*HealthMonitoringWorker)(nil)

func NewHealthMonitoringWorker(log *slog.Logger, telemetryChan chan<- event.Event,
	metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
		pid:            domain.PID(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	probe, err := process.NewProcess(int32(w.pid))
	if err != nil {
		w.log.Error("Error while retrieving own process", "pid", w.pid, "err", err)
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health sampling")
			return nil
		case <-ticker.C:
			sample, ok := w.sample(probe)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case w.telemetryChan <- sample:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

func (w *HealthMonitoringWorker) sample(probe *process.Process) (event.Event, bool) {
	status, err := probe.Status()
	if err != nil {
		w.log.Error("Error while finding process status", "err", err)
		return event.Event{}, false
	}
	cpu, err := probe.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
		return event.Event{}, false
	}
	mem, err := probe.MemoryInfo()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
		return event.Event{}, false
	}

	return event.Event{
		Type:      event.HealthSampleType,
		CreatedAt: time.Now().UTC(),
		Payload: event.HealthSample{
			PID:    w.pid,
			Status: domain.ToStatus(status),
			Cpu:    cpu,
			Ram:    mem.RSS,
		},
	}, true
}
