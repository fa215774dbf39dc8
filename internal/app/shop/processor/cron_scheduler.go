package processor

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CacheWarmer прогревает кеш фасетов каталога
type CacheWarmer interface {
	WarmFacetCache(ctx context.Context) error
}

type CronScheduler struct {
	cron   *cron.Cron
	warmer CacheWarmer
}

func NewCronScheduler(warmer CacheWarmer) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:   c,
		warmer: warmer,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: warming catalog facet cache")

		if err := s.warmer.WarmFacetCache(ctx); err != nil {
			log.Printf("ERROR: Failed to warm facet cache: %v", err)
		} else {
			log.Println("Cron job completed: facet cache warmed successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	log.Println("Performing initial facet cache warmup...")
	if err := s.warmer.WarmFacetCache(ctx); err != nil {
		log.Printf("WARNING: Failed initial facet cache warmup: %v", err)
	} else {
		log.Println("Initial facet cache warmup completed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
