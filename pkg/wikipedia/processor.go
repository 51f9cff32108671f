package wikipedia

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"placefacts/internal/enrich"
	"placefacts/internal/models"
	"placefacts/pkg/geo"
	coords "placefacts/models"
)

// PageItem is a category member flowing through the enrichment pipeline.
// Steps of one stage write disjoint fields of Landmark.
type PageItem struct {
	Title    string
	Lang     string
	Landmark models.Landmark
}

// LandmarkProcessor streams landmarks built from the articles of a category.
type LandmarkProcessor struct {
	svc      *CategoryService
	pipeline *enrich.Pipeline[PageItem]
}

// NewLandmarkProcessor builds the default stages (coordinates, then extract
// and categories, then classification) followed by any extra stages.
func NewLandmarkProcessor(svc *CategoryService, extra ...enrich.Stage[PageItem]) *LandmarkProcessor {
	stages := []enrich.Stage[PageItem]{
		enrich.NewStage(svc.stepCoordinates),
		enrich.NewStage(svc.stepExtract, svc.stepCategories),
		enrich.NewStage(stepClassify),
	}
	stages = append(stages, extra...)
	return &LandmarkProcessor{svc: svc, pipeline: enrich.NewPipeline(stages...)}
}

// ProcessCategoryAsync fetches up to 2*limit members of the category, runs
// the first limit of them through the pipeline and streams every landmark
// that survives. The channel is closed when the category is done.
func (p *LandmarkProcessor) ProcessCategoryAsync(ctx context.Context, lang, category string, limit int) <-chan models.Landmark {
	out := make(chan models.Landmark)
	go func() {
		defer close(out)

		logger := log.WithFields(log.Fields{"category": category, "lang": lang})
		titles, err := p.svc.GetCategoryMembers(ctx, lang, CategoryTitle(lang, category), limit*2)
		if err != nil {
			logger.WithError(err).Error("Error fetching category members")
		}
		logger.Infof("Found %d pages in category", len(titles))
		if len(titles) > limit {
			titles = titles[:limit]
		}

		in := make(chan *PageItem)
		go func() {
			defer close(in)
			for _, title := range titles {
				select {
				case in <- &PageItem{Title: title, Lang: lang}:
				case <-ctx.Done():
					return
				}
			}
		}()

		for item := range p.pipeline.Process(ctx, in) {
			logger.WithField("page", item.Title).Info("Added landmark")
			select {
			case out <- item.Landmark:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *CategoryService) stepCoordinates(ctx context.Context, item *PageItem) error {
	c, err := s.GetCoordinates(ctx, item.Lang, item.Title)
	if err != nil {
		return fmt.Errorf("%w: %w", enrich.ErrSkip, err)
	}
	point := coords.Coordinates{Lat: c.Lat, Lon: c.Lon}
	if !point.Valid() {
		return fmt.Errorf("%w: invalid coordinates for %q", enrich.ErrSkip, item.Title)
	}
	item.Landmark.Coordinates = point
	return nil
}

func (s *CategoryService) stepExtract(ctx context.Context, item *PageItem) error {
	text, err := s.GetExtract(ctx, item.Lang, item.Title)
	if err != nil {
		return fmt.Errorf("%w: %w", enrich.ErrSkip, err)
	}
	item.Landmark.Description = text
	return nil
}

func (s *CategoryService) stepCategories(ctx context.Context, item *PageItem) error {
	categories, err := s.GetCategories(ctx, item.Lang, item.Title)
	if err != nil {
		return err
	}
	item.Landmark.Categories = categories
	return nil
}

func stepClassify(_ context.Context, item *PageItem) error {
	lm := &item.Landmark
	lm.Name = item.Title
	lm.Language = item.Lang
	lm.Type = geo.ClassifyType(item.Title, lm.Categories)
	lm.City, lm.Country = geo.ResolvePlace(lm.Categories)
	lm.WikipediaURL = PageURL(item.Lang, item.Title)
	return nil
}
