// Package mocks provides test doubles for the gsheets client.
package mocks

import (
	"context"

	gsheets "github.com/sells-group/leadtrack/pkg/gsheets"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Spreadsheet provides a mock function with given fields: ctx, spreadsheetID
func (_m *MockClient) Spreadsheet(ctx context.Context, spreadsheetID string) (*gsheets.Spreadsheet, error) {
	ret := _m.Called(ctx, spreadsheetID)

	if len(ret) == 0 {
		panic("no return value specified for Spreadsheet")
	}

	var r0 *gsheets.Spreadsheet
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*gsheets.Spreadsheet, error)); ok {
		return rf(ctx, spreadsheetID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *gsheets.Spreadsheet); ok {
		r0 = rf(ctx, spreadsheetID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*gsheets.Spreadsheet)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, spreadsheetID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Values provides a mock function with given fields: ctx, spreadsheetID, a1Range
func (_m *MockClient) Values(ctx context.Context, spreadsheetID string, a1Range string) ([][]string, error) {
	ret := _m.Called(ctx, spreadsheetID, a1Range)

	if len(ret) == 0 {
		panic("no return value specified for Values")
	}

	var r0 [][]string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([][]string, error)); ok {
		return rf(ctx, spreadsheetID, a1Range)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) [][]string); ok {
		r0 = rf(ctx, spreadsheetID, a1Range)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([][]string)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, spreadsheetID, a1Range)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
