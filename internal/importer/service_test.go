package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fluxo/internal/importer"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

const export = `"dayKey","type","category","amountARS","note"
"2025-03-05","expense","comida","1250.50","almuerzo"
"2025-03-06","income","","10.00",""
`

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	owner := uuid.New()

	repo.EXPECT().BeginImport(gomock.Any(), owner).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			require.Len(t, txs, 2)
			assert.Equal(t, owner, txs[0].OwnerID)
			assert.Equal(t, "2025-03-05", txs[0].DayKey)
			assert.Equal(t, transaction.DefaultCategory, txs[1].Category)

			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	svc := importer.NewService(transaction.NewService(repo))

	created, err := svc.Import(context.Background(), owner, strings.NewReader(export))
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestService_Import_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	owner := uuid.New()

	boom := errors.New("connection refused")
	repo.EXPECT().BeginImport(gomock.Any(), owner).Return(nil, boom)

	svc := importer.NewService(transaction.NewService(repo))

	created, err := svc.Import(context.Background(), owner, strings.NewReader(export))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, created)
}

func TestService_Import_InvalidRowStoresNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	svc := importer.NewService(transaction.NewService(repo))

	_, err := svc.Import(context.Background(), uuid.New(),
		strings.NewReader(export+`"2025-03-07","expense","otros","-5",""`+"\n"))

	var rowErr *importer.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Line)
}

func TestService_Import_HeaderOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	svc := importer.NewService(transaction.NewService(repo))

	created, err := svc.Import(context.Background(), uuid.New(), strings.NewReader("dayKey,type,amountARS\n"))
	require.NoError(t, err)
	assert.Empty(t, created)
}
