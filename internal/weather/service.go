package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/doomer-lab/info-center/internal/notify"
)

// moduleTag labels warning events emitted by this service.
const moduleTag = "weather"

var (
	// ErrCityNotFound means the city code has no entry in the city table.
	ErrCityNotFound = errors.New("city not found")
	// ErrNoObservation means the upstream returned no usable observation.
	ErrNoObservation = errors.New("no observation data")
)

// Service runs the fetch -> sanitize -> archive -> summarize -> notify
// pipeline. Each invocation is independent and strictly sequential; the two
// shared stores behind the collaborators are safe for concurrent use.
type Service struct {
	cities   CityResolver
	provider Provider
	archive  Archiver // optional; nil skips archival
	runner   ContentRunner
	notifier Notifier
}

// NewService creates a Service. archive may be nil when no archive store is
// configured.
func NewService(cities CityResolver, provider Provider, archive Archiver, runner ContentRunner, notifier Notifier) *Service {
	return &Service{
		cities:   cities,
		provider: provider,
		archive:  archive,
		runner:   runner,
		notifier: notifier,
	}
}

// Observation resolves the city, fetches and sanitizes the raw observation,
// and archives it best-effort. It returns the sanitized "data" section.
// Not-found and empty-data conditions are terminal for the invocation: they
// emit a warning event and return a sentinel error.
func (s *Service) Observation(ctx context.Context, cityCode string) (map[string]any, error) {
	cityName, err := s.cities.CityName(ctx, cityCode)
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			s.notifier.Warn(ctx, "城市不存在"+cityCode, moduleTag)
			return nil, fmt.Errorf("%w: %s", ErrCityNotFound, cityCode)
		}
		s.notifier.Warn(ctx, "查询城市失败"+err.Error(), moduleTag)
		return nil, fmt.Errorf("failed to resolve city %s: %w", cityCode, err)
	}

	// Client-assigned creation time for the archive record.
	now := time.Now().UnixMilli()

	body, err := s.provider.Observation(ctx, cityCode)
	if err != nil {
		s.notifier.Warn(ctx, "获取天气数据失败"+err.Error(), moduleTag)
		return nil, fmt.Errorf("failed to fetch observation for %s: %w", cityCode, err)
	}
	if body == nil || body["data"] == nil {
		s.notifier.Warn(ctx, "天气数据为空"+cityCode, moduleTag)
		return nil, fmt.Errorf("%w: %s", ErrNoObservation, cityCode)
	}

	cleaned, _ := Sanitize(body).(map[string]any)
	data, ok := cleaned["data"].(map[string]any)
	if !ok || len(data) == 0 {
		// Nothing but placeholders survived sanitization.
		s.notifier.Warn(ctx, "天气数据为空"+cityCode, moduleTag)
		return nil, fmt.Errorf("%w: %s", ErrNoObservation, cityCode)
	}

	if s.archive != nil {
		rec := Record{
			City:      cityName,
			CityCode:  cityCode,
			Data:      data,
			CreatedAt: now,
		}
		if err := s.archive.Save(ctx, rec); err != nil {
			// Archival is best-effort; the pipeline carries on.
			s.notifier.Warn(ctx, "插入数据库失败", moduleTag)
			log.Printf("weather: archive failed for %s: %v", cityCode, err)
		}
	}

	return data, nil
}

// Summarize fetches the observation and renders it through the given agent.
// mode selects how much of the payload the agent sees. A generation failure
// is a hard failure of the call.
func (s *Service) Summarize(ctx context.Context, cityCode string, mode Mode, agentID int) (map[string]any, string, error) {
	data, err := s.Observation(ctx, cityCode)
	if err != nil {
		return nil, "", err
	}

	input := data
	if mode == ModeCurrent {
		input = ReduceSections(data, currentSections...)
	}

	content, err := s.runner.Run(ctx, agentID, input)
	if err != nil {
		return data, "", err
	}
	return data, content, nil
}

// SummarizeAndNotify runs the full pipeline and dispatches the rendered
// content to the requested channel. The response echoes the sanitized payload
// and the delivery result for traceability.
func (s *Service) SummarizeAndNotify(ctx context.Context, req Request) (Response, error) {
	data, content, err := s.Summarize(ctx, req.CityCode, req.Mode, req.AgentID)
	if err != nil {
		return Response{Payload: data}, err
	}

	res, err := s.notifier.Dispatch(ctx, req.Channel, content, deliveryTitle(req.Channel))
	if err != nil {
		return Response{Payload: data, Content: content, Delivery: res}, err
	}

	return Response{Payload: data, Content: content, Delivery: res}, nil
}

func deliveryTitle(channel notify.Channel) string {
	if channel == notify.ChannelEmail {
		return "今日天气"
	}
	return "天气预报"
}
