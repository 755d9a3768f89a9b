package commands_test

import (
	"strings"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandConstructors_RejectMissingIdentifiers(t *testing.T) {
	valid := kernel.NewUUID()
	var missing kernel.UUID

	tests := []struct {
		name  string
		build func() error
	}{
		{"accept batch without batch", func() error {
			_, err := commands.NewAcceptBatchCommand(missing, valid)
			return err
		}},
		{"accept batch without driver", func() error {
			_, err := commands.NewAcceptBatchCommand(valid, missing)
			return err
		}},
		{"decline batch without driver", func() error {
			_, err := commands.NewDeclineBatchCommand(valid, missing, "")
			return err
		}},
		{"request status without batch", func() error {
			_, err := commands.NewRequestBatchStatusCommand(missing, "complete")
			return err
		}},
		{"delivery status without order", func() error {
			_, err := commands.NewUpdateDeliveryStatusCommand(missing, "complete")
			return err
		}},
		{"accept delivery without order", func() error {
			_, err := commands.NewAcceptDeliveryCommand(missing, valid)
			return err
		}},
		{"decline delivery without driver", func() error {
			_, err := commands.NewDeclineDeliveryCommand(valid, missing, "")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.build(), errs.ErrValueIsRequired)
		})
	}
}

func TestDeclineCommands_ReasonIsBounded(t *testing.T) {
	long := strings.Repeat("x", commands.MaxDeclineReasonLength+1)

	_, err := commands.NewDeclineBatchCommand(kernel.NewUUID(), kernel.NewUUID(), long)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewDeclineDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), long)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewDeclineBatchCommand(kernel.NewUUID(), kernel.NewUUID(), strings.Repeat("x", commands.MaxDeclineReasonLength))
	require.NoError(t, err)
	assert.Len(t, cmd.Reason(), commands.MaxDeclineReasonLength)
}

func TestCommands_ZeroValueIsNotConstructed(t *testing.T) {
	assert.ErrorIs(t, commands.AcceptBatchCommand{}.Validate(), commands.ErrAcceptBatchCommandIsNotConstructed)
	assert.ErrorIs(t, commands.DeclineBatchCommand{}.Validate(), commands.ErrDeclineBatchCommandIsNotConstructed)
	assert.ErrorIs(t, commands.AcceptDeliveryCommand{}.Validate(), commands.ErrAcceptDeliveryCommandIsNotConstructed)
	assert.ErrorIs(t, commands.DeclineDeliveryCommand{}.Validate(), commands.ErrDeclineDeliveryCommandIsNotConstructed)
	assert.ErrorIs(t,
		commands.UpdateDeliveryStatusCommand{}.Validate(),
		commands.ErrUpdateDeliveryStatusCommandIsNotConstructed,
	)
}
