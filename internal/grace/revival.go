package grace

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
)

func (s *Service) defaultRevival() models.RevivalData {
	return models.RevivalData{
		Points:    constants.DefaultRevivalPoints,
		LastReset: utils.Today(s.clock),
	}
}

// RevivalData returns the point pool, initializing it on first use.
func (s *Service) RevivalData() models.RevivalData {
	var data models.RevivalData
	ok, err := storage.GetJSON(s.store, constants.KeyRevivalPoints, &data)
	if err != nil {
		logger.Warn("Revival points are unreadable, using defaults", "error", err)
		return s.defaultRevival()
	}
	if !ok {
		data = s.defaultRevival()
		if err := storage.SetJSON(s.store, constants.KeyRevivalPoints, data); err != nil {
			logger.Warn("Failed to initialize revival points", "error", err)
		}
	}
	return data
}

func (s *Service) RevivalPoints() int {
	return s.RevivalData().Points
}

// UseRevivalPoint spends one point. It returns false when none are left.
func (s *Service) UseRevivalPoint() (bool, error) {
	data := s.RevivalData()
	if data.Points <= 0 {
		return false, nil
	}
	data.Points--
	if err := storage.SetJSON(s.store, constants.KeyRevivalPoints, data); err != nil {
		return false, fmt.Errorf("saving revival points: %w", err)
	}
	return true, nil
}

// RestoreRevivalPoints sets the pool to n, capped at the default allowance.
func (s *Service) RestoreRevivalPoints(n int) error {
	data := s.RevivalData()
	data.Points = max(0, min(n, constants.DefaultRevivalPoints))
	data.LastReset = utils.Today(s.clock)
	if err := storage.SetJSON(s.store, constants.KeyRevivalPoints, data); err != nil {
		return fmt.Errorf("saving revival points: %w", err)
	}
	return nil
}
