package bill

import (
	"github.com/smallbiznis/pharmabill/internal/bill/composer"
	"github.com/smallbiznis/pharmabill/internal/bill/repository"
	"github.com/smallbiznis/pharmabill/internal/bill/service"
	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(catalog medicinedomain.Service) composer.Lookup { return catalog }),
	fx.Provide(composer.New),
)
