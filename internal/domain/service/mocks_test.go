package service

import (
	"context"
	"sync"

	"smarterthings-bridge/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockDeviceClient struct {
	mock.Mock
}

func (m *MockDeviceClient) ListDevices(ctx context.Context) ([]*model.Device, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Device), args.Error(1)
}

func (m *MockDeviceClient) GetStatus(ctx context.Context, deviceID string) (map[string]any, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockDeviceClient) SwitchOn(ctx context.Context, deviceID string) error {
	return m.Called(ctx, deviceID).Error(0)
}

func (m *MockDeviceClient) SwitchOff(ctx context.Context, deviceID string) error {
	return m.Called(ctx, deviceID).Error(0)
}

func (m *MockDeviceClient) SetFanSpeed(ctx context.Context, deviceID string, speed int) error {
	return m.Called(ctx, deviceID, speed).Error(0)
}

func (m *MockDeviceClient) SetFanMode(ctx context.Context, deviceID string, mode string) error {
	return m.Called(ctx, deviceID, mode).Error(0)
}

func (m *MockDeviceClient) Configure(url, token string) {
	m.Called(url, token)
}

func (m *MockDeviceClient) SetLocation(locationID string) {
	m.Called(locationID)
}

func (m *MockDeviceClient) IsConfigured() bool {
	return m.Called().Bool(0)
}

type recordingWriter struct {
	mu     sync.Mutex
	states []model.EntityState
}

func (w *recordingWriter) WriteState(ctx context.Context, state model.EntityState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.states = append(w.states, state)
}

func (w *recordingWriter) written() []model.EntityState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.EntityState(nil), w.states...)
}

type memoryConfigRepo struct {
	cfg *model.Config
}

func (r *memoryConfigRepo) Get(ctx context.Context) (*model.Config, error) {
	c := *r.cfg
	return &c, nil
}

func (r *memoryConfigRepo) Save(ctx context.Context, cfg *model.Config) error {
	c := *cfg
	r.cfg = &c
	return nil
}
