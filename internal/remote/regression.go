package remote

import (
	"context"
	"time"
)

// RegressionRequest is shared by the linear and random-forest endpoints.
// NEstimators is only sent to the random-forest endpoint.
type RegressionRequest struct {
	Frame       []map[string]float64 `json:"dataframe" validate:"min=1"`
	Dependent   string               `json:"dependent_var" validate:"required"`
	Independent []string             `json:"independent_vars" validate:"min=1,dive,required"`
	NEstimators int                  `json:"n_estimators,omitempty" validate:"gte=0"`
}

// LinearResult is the ordinary least squares fit.
type LinearResult struct {
	Status       string             `json:"status"`
	RSquared     float64            `json:"r_squared"`
	Coefficients map[string]float64 `json:"coefficients"`
	Parameters   map[string]float64 `json:"parameters,omitempty"`
	Summary      string             `json:"summary,omitempty"`
}

// Coefs returns the coefficients under whichever key the service used.
func (r *LinearResult) Coefs() map[string]float64 {
	if len(r.Coefficients) > 0 {
		return r.Coefficients
	}
	return r.Parameters
}

// ForestResult is the random-forest fit.
type ForestResult struct {
	Status             string             `json:"status"`
	RSquared           *float64           `json:"r_squared,omitempty"`
	RSquaredScore      *float64           `json:"r_squared_score,omitempty"`
	MAE                *float64           `json:"mae,omitempty"`
	MSE                *float64           `json:"mse,omitempty"`
	RMSE               *float64           `json:"rmse,omitempty"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

// R2 returns the coefficient of determination under either key.
func (r *ForestResult) R2() (float64, bool) {
	switch {
	case r.RSquared != nil:
		return *r.RSquared, true
	case r.RSquaredScore != nil:
		return *r.RSquaredScore, true
	}
	return 0, false
}

// RegressionClient calls the regression service.
type RegressionClient struct{ *Client }

// NewRegressionClient uses baseURL with the /run_linear_regression and
// /run_random_forest endpoints.
func NewRegressionClient(baseURL string, timeout time.Duration) *RegressionClient {
	return &RegressionClient{NewClient("regression", baseURL, timeout)}
}

// Linear fits an ordinary least squares model.
func (c *RegressionClient) Linear(ctx context.Context, req RegressionRequest) (*LinearResult, error) {
	req.NEstimators = 0
	var out LinearResult
	if err := c.postJSON(ctx, "/run_linear_regression", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RandomForest fits an ensemble; nEstimators defaults to 100.
func (c *RegressionClient) RandomForest(ctx context.Context, req RegressionRequest) (*ForestResult, error) {
	if req.NEstimators <= 0 {
		req.NEstimators = 100
	}
	var out ForestResult
	if err := c.postJSON(ctx, "/run_random_forest", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
