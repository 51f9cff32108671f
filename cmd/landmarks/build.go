package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"placefacts/internal/config"
	"placefacts/internal/dataset"
	"placefacts/internal/enrich"
	"placefacts/internal/models"
	"placefacts/internal/storage"
	"placefacts/pkg/graceful"
	"placefacts/pkg/location"
	"placefacts/pkg/wikipedia"
)

var (
	selector       string
	limit          int
	outputPath     string
	requestRate    float64
	reverseGeocode bool
	s3Bucket       string
	pgDSN          string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch landmarks with coordinates and write the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := categorySets.Resolve(selector)
		if err != nil {
			return err
		}

		ctx, cancel := graceful.Context(cmd.Context())
		defer cancel()

		svc := wikipedia.NewCategoryService(
			wikipedia.NewClient(requestRate),
			wikipedia.NewCategoryExtractor(wikipedia.DefaultBlocklist),
		)
		var extra []enrich.Stage[wikipedia.PageItem]
		if reverseGeocode {
			extra = append(extra, dataset.ReverseGeocodeStage(location.NewGeocoder("en")))
		}

		start := time.Now()
		builder := dataset.NewBuilder(wikipedia.NewLandmarkProcessor(svc, extra...), limit, logger)
		ds := builder.Build(ctx, specs)

		if err := dataset.WriteFile(outputPath, ds); err != nil {
			return err
		}
		logger.WithField("output", outputPath).Infof("Dataset saved with %d unique landmarks in %s", ds.TotalLocations, time.Since(start).Round(time.Second))

		if s3Bucket != "" {
			if err := upload(ctx, ds); err != nil {
				return err
			}
		}
		if pgDSN != "" {
			if err := export(ctx, ds); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dataset generation completed. Output saved to: %s\n", outputPath)
		return nil
	},
}

func upload(ctx context.Context, ds models.Dataset) error {
	s3, err := storage.NewS3Service(config.FromEnv().MinIO)
	if err != nil {
		return err
	}
	if _, err := s3.CreateBucket(ctx, s3Bucket, ""); err != nil {
		return fmt.Errorf("preparing bucket %s: %w", s3Bucket, err)
	}
	key, err := s3.StoreDataset(ctx, s3Bucket, selector, ds, time.Now())
	if err != nil {
		return err
	}
	logger.WithField("key", key).Info("Dataset uploaded")
	return nil
}

func export(ctx context.Context, ds models.Dataset) error {
	pg, err := storage.NewPostgres(ctx, pgDSN)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	_, err = pg.ReplaceLandmarks(ctx, ds.Locations)
	return err
}

func init() {
	buildCmd.Flags().StringVar(&selector, "categories", "russian", "Category set to process (russian, world, all or a set from --categories-file)")
	buildCmd.Flags().IntVar(&limit, "limit", 10, "Maximum pages processed per category")
	buildCmd.Flags().StringVar(&outputPath, "output", "data/landmarks.json", "Output file path")
	buildCmd.Flags().Float64Var(&requestRate, "rate", wikipedia.DefaultRate, "Wikipedia requests per second")
	buildCmd.Flags().BoolVar(&reverseGeocode, "reverse-geocode", false, "Resolve unknown cities through Nominatim (1 request per second)")
	buildCmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Also upload the dataset to this bucket (MINIO_* settings)")
	buildCmd.Flags().StringVar(&pgDSN, "pg", "", "Also export the dataset to this Postgres database")
	rootCmd.AddCommand(buildCmd)
}
