package handler

import (
	childdomain "family-journal-go/internal/domain/child"
	drawingdomain "family-journal-go/internal/domain/drawing"
	familydomain "family-journal-go/internal/domain/family"
	insightsdomain "family-journal-go/internal/domain/insights"
	notedomain "family-journal-go/internal/domain/note"
	notiondomain "family-journal-go/internal/domain/notion"
	"family-journal-go/pkg/logger"
)

type Handlers struct {
	Families *familydomain.Service
	Children *childdomain.Service
	Notes    *notedomain.Service
	Drawings *drawingdomain.Service
	Insights *insightsdomain.Service
	Notion   *notiondomain.Service

	log logger.Logger
}

func New(
	families *familydomain.Service,
	children *childdomain.Service,
	notes *notedomain.Service,
	drawings *drawingdomain.Service,
	insights *insightsdomain.Service,
	notion *notiondomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Families: families,
		Children: children,
		Notes:    notes,
		Drawings: drawings,
		Insights: insights,
		Notion:   notion,
		log:      log,
	}
}
