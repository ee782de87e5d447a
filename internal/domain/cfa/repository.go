package cfa

import (
	"context"
	"time"

	"admithub/internal/common"
)

type Repository interface {
	Create(ctx context.Context, c CallForApplication) (*CallForApplication, error)
	Update(ctx context.Context, c CallForApplication) (*CallForApplication, error)
	GetByID(ctx context.Context, id common.UUID) (*CallForApplication, error)
	ListByProgramme(ctx context.Context, programmeID common.UUID) ([]CallForApplication, error)
	TitleExists(ctx context.Context, programmeID common.UUID, title string, excludeID common.UUID) (bool, error)
	SetStatus(ctx context.Context, id common.UUID, status Status) error
	SetClosed(ctx context.Context, id common.UUID) error
	SetEndDate(ctx context.Context, id common.UUID, endDate time.Time) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type StageRepository interface {
	ReplaceForCFA(ctx context.Context, cfaID common.UUID, stages []Stage) ([]Stage, error)
	ListByCFA(ctx context.Context, cfaID common.UUID) ([]Stage, error)
	GetByID(ctx context.Context, id common.UUID) (*Stage, error)
	StatsByCFA(ctx context.Context, cfaID common.UUID) ([]StageStat, error)
}
