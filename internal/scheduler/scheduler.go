package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/doomer-lab/info-center/internal/agent"
	"github.com/doomer-lab/info-center/internal/notify"
	"github.com/doomer-lab/info-center/internal/weather"
)

// Scheduler pushes a daily markdown weather summary to the chat-bot channel
// for each configured city.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	at        string
}

// New creates a Scheduler that fires daily at the given local time ("15:04").
func New(cities []string, at string, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	return &Scheduler{
		scheduler: s,
		service:   service,
		cities:    cities,
		at:        at,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no push cities configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		log.Println("scheduler: running morning weather push")

		for _, code := range s.cities {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

			_, err := s.service.SummarizeAndNotify(ctx, weather.Request{
				CityCode: code,
				Mode:     weather.ModeFull,
				AgentID:  agent.AgentMarkdown,
				Channel:  notify.ChannelChatBot,
			})
			if err != nil {
				log.Printf("scheduler: push failed for %s: %v", code, err)
			}

			cancel()
		}
		log.Println("scheduler: completed morning weather push")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
