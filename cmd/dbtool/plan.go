package main

import (
	"encoding/json"
	"os"
	"trip-planner-service/internal/adapters/geojson"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/app"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	planRequest string
	planGeoJSON bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Synthesize an itinerary from a request file and print it",
	Example: `  dbtool plan --request trip.json
  dbtool plan --request trip.json --geojson > trip.geojson`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, err := os.ReadFile(planRequest)
		if err != nil {
			return eris.Wrapf(err, "plan: read %q", planRequest)
		}
		var req dto.ItineraryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return eris.Wrapf(err, "plan: parse %q", planRequest)
		}
		prefs, err := req.Preferences()
		if err != nil {
			return eris.Wrap(err, "plan")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		planner, closeSignals, err := app.NewPlanner(cfg, store, zap.L())
		if err != nil {
			return err
		}
		defer closeSignals()

		it, err := planner.PlanTrip(cmd.Context(), prefs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if planGeoJSON {
			b, err := geojson.Marshal(it)
			if err != nil {
				return err
			}
			_, err = out.Write(append(b, '\n'))
			return err
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewItineraryResponse(prefs.Zone, it))
	},
}

func init() {
	planCmd.Flags().StringVar(&planRequest, "request", "", "JSON itinerary request file")
	planCmd.Flags().BoolVar(&planGeoJSON, "geojson", false, "print a GeoJSON FeatureCollection")
	_ = planCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(planCmd)
}
