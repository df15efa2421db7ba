package entity

import (
	"context"
	"smarterthings-bridge/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) SwitchOn(ctx context.Context, deviceID string) error {
	return m.Called(ctx, deviceID).Error(0)
}

func (m *MockCommander) SwitchOff(ctx context.Context, deviceID string) error {
	return m.Called(ctx, deviceID).Error(0)
}

func (m *MockCommander) SetFanSpeed(ctx context.Context, deviceID string, speed int) error {
	return m.Called(ctx, deviceID, speed).Error(0)
}

func (m *MockCommander) SetFanMode(ctx context.Context, deviceID string, mode string) error {
	return m.Called(ctx, deviceID, mode).Error(0)
}

type recordingWriter struct {
	states []model.EntityState
}

func (w *recordingWriter) WriteState(ctx context.Context, state model.EntityState) {
	w.states = append(w.states, state)
}
