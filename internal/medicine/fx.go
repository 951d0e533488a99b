package medicine

import (
	"github.com/smallbiznis/pharmabill/internal/medicine/repository"
	"github.com/smallbiznis/pharmabill/internal/medicine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("medicine.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
