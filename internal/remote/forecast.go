package remote

import (
	"context"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
)

// Forecast model types understood by the forecasting service.
const (
	ModelARIMA            = "arima"
	ModelLinearRegression = "simple_linear_regression"
)

// ForecastRequest asks for predictions beyond the end of a series.
type ForecastRequest struct {
	Series      []analysis.SeriesPoint `json:"time_series_data" validate:"min=2"`
	Horizon     int                    `json:"prediction_horizon" validate:"gt=0"`
	ModelType   string                 `json:"model_type" validate:"oneof=arima simple_linear_regression"`
	DateColumn  string                 `json:"date_column" validate:"required"`
	ValueColumn string                 `json:"value_column" validate:"required"`
}

// ForecastResponse carries predictions and an in-sample error estimate.
// RMSE is nil when the service could not compute it.
type ForecastResponse struct {
	Predictions []analysis.SeriesPoint `json:"predictions"`
	RMSE        *float64               `json:"rmse"`
	Insights    string                 `json:"insights"`
}

// ForecastClient calls the forecasting service.
type ForecastClient struct{ *Client }

// NewForecastClient posts to the full forecast endpoint url.
func NewForecastClient(url string, timeout time.Duration) *ForecastClient {
	return &ForecastClient{NewClient("forecast", url, timeout)}
}

// Forecast runs one prediction.
func (c *ForecastClient) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error) {
	var out ForecastResponse
	if err := c.postJSON(ctx, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
