package e2e

import (
	"github.com/cucumber/godog"

	"rsu/e2e/steps/common"
	"rsu/e2e/steps/programs"
	"rsu/e2e/steps/ratelimit"
	"rsu/e2e/steps/registry"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	registry.RegisterSteps(ctx, tc)
	programs.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
