// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package grpcserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ reservationServiceServer = (*Server)(nil)

func TestServiceDescNamesMatchMethods(t *testing.T) {
	assert.Equal(t, "reservation.ReservationService", ServiceDesc.ServiceName)

	var unaryNames []string
	for _, m := range ServiceDesc.Methods {
		unaryNames = append(unaryNames, m.MethodName)
	}
	assert.ElementsMatch(t, []string{"Reserve", "Confirm", "Update", "Cancel", "Get", "Filter"}, unaryNames)

	var streamNames []string
	for _, s := range ServiceDesc.Streams {
		streamNames = append(streamNames, s.StreamName)
		assert.True(t, s.ServerStreams)
		assert.False(t, s.ClientStreams)
	}
	assert.ElementsMatch(t, []string{"Query", "Listen"}, streamNames)
}
