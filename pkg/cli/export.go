package cli

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/pkg/export"
)

func exportCmd(base pagetree.Config, load func() (*config.Config, error)) *cobra.Command {
	var (
		dir       string
		bucket    string
		prefix    string
		region    string
		endpoint  string
		pathStyle bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page to static files",
		Long: `Render every view endpoint and write it as <path>/index.html.

Pages go to a local directory by default, or to an S3 bucket with --bucket.
S3 credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("bucket") {
				fc.Export.Bucket = bucket
			}
			if flags.Changed("prefix") {
				fc.Export.Prefix = prefix
			}
			if flags.Changed("region") {
				fc.Export.Region = region
			}
			if flags.Changed("endpoint") {
				fc.Export.Endpoint = endpoint
			}
			if pathStyle {
				fc.Export.PathStyle = true
			}

			app := pagetree.New(appConfig(base, fc))

			pub, target := publisher(fc)
			if fc.Export.Bucket == "" && flags.Changed("dir") {
				pub, target = export.NewDirPublisher(dir), dir
			}
			res, err := app.Export(cmd.Context(), pub)
			if err != nil {
				return err
			}
			success(cmd, "Exported %d pages (%d bytes) to %s", len(res.Files), res.Bytes, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default: dist)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Publish to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&pathStyle, "path-style", false, "Use path-style bucket addressing")

	return cmd
}

// publisher picks S3 when a bucket is configured, a directory otherwise.
func publisher(fc *config.Config) (export.Publisher, string) {
	if fc.Export.Bucket != "" {
		client := export.NewS3Client(export.S3Options{
			Region:    fc.Export.Region,
			Endpoint:  fc.Export.Endpoint,
			PathStyle: fc.Export.PathStyle,
		})
		return export.NewS3Publisher(client, fc.Export.Bucket, fc.Export.Prefix), "s3://" + fc.Export.Bucket
	}
	dir := fc.ExportPath()
	return export.NewDirPublisher(dir), dir
}
