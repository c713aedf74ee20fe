package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
}

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		verify    func(t *testing.T, got *transaction.Transaction)
		wantErr   error
	}

	owner := uuid.New()

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeExpense,
					Amount:   125050,
					Category: "comida",
					Note:     "super",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			verify: func(t *testing.T, got *transaction.Transaction) {
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, owner, got.OwnerID)
				assert.Equal(t, "2025-03-05", got.DayKey)
				assert.Equal(t, "comida", got.Category)
				assert.Equal(t, "super", got.Note)
			},
		},
		{
			name: "BlankCategoryDefaults",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeIncome,
					Amount:   100,
					Category: "   ",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, transaction.DefaultCategory, got.Category)
				assert.Empty(t, got.Note)
			},
		},
		{
			name: "UnknownCategoryKept",
			args: args{
				params: transaction.CreateParams{
					Type:     transaction.TypeExpense,
					Amount:   100,
					Category: "mascotas",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, "mascotas", got.Category)
			},
		},
		{
			name:    "ZeroAmount",
			args:    args{params: transaction.CreateParams{Type: transaction.TypeExpense}},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name:    "InvalidType",
			args:    args{params: transaction.CreateParams{Type: "transfer", Amount: 10}},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{Type: transaction.TypeExpense, Amount: 500},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo).WithClock(fixedNow)
			got, err := svc.Create(context.Background(), owner, tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestService_Create_ValidationSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any repository call fails the test.
	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), transaction.CreateParams{
		Type:   transaction.TypeExpense,
		Amount: -5,
	})
	require.Error(t, err)
	assert.True(t, transaction.IsValidation(err))
	assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	owner := uuid.New()

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), owner).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Empty",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), owner).Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), owner).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), owner)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	type testCase struct {
		name      string
		patch     transaction.Patch
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "NoteOnly",
			patch: transaction.Patch{Note: new("new note")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					UpdateTransaction(gomock.Any(), owner, id, transaction.Patch{Note: new("new note")}).
					Return(nil)
			},
		},
		{
			name:  "BlankCategoryDefaults",
			patch: transaction.Patch{Category: new(" ")},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					UpdateTransaction(gomock.Any(), owner, id, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ uuid.UUID, p transaction.Patch) error {
						assert.Equal(t, transaction.DefaultCategory, *p.Category)
						assert.Nil(t, p.Amount)
						return nil
					})
			},
		},
		{
			name:    "InvalidMonth",
			patch:   transaction.Patch{DayKey: new("2025-13-01")},
			wantErr: transaction.ErrInvalidDayKey,
		},
		{
			name:    "MalformedDayKey",
			patch:   transaction.Patch{DayKey: new("05/03/2025")},
			wantErr: transaction.ErrInvalidDayKey,
		},
		{
			name:    "NonPositiveAmount",
			patch:   transaction.Patch{Amount: new(int64(0))},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name:    "InvalidType",
			patch:   transaction.Patch{Type: new(transaction.Type("gift"))},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name:  "EmptyPatchIsNoop",
			patch: transaction.Patch{},
		},
		{
			name:  "NotFound",
			patch: transaction.Patch{Amount: new(int64(10))},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					UpdateTransaction(gomock.Any(), owner, id, gomock.Any()).
					Return(transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := transaction.NewService(repo).Update(context.Background(), owner, id, tt.patch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner, id := uuid.New(), uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().DeleteTransaction(gomock.Any(), owner, id).Return(nil)

	require.NoError(t, transaction.NewService(repo).Delete(context.Background(), owner, id))
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	params := []transaction.ImportParams{
		{
			CreateParams: transaction.CreateParams{
				Type:     transaction.TypeExpense,
				Amount:   1000,
				Category: "comida",
			},
			DayKey: "2025-02-10",
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), owner).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), owner, params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1000), txs[0].Amount)
	assert.Equal(t, "2025-02-10", txs[0].DayKey)
	assert.Equal(t, owner, txs[0].OwnerID)
}

func TestService_CreateBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	params := []transaction.ImportParams{
		{CreateParams: transaction.CreateParams{Type: transaction.TypeIncome, Amount: 5}, DayKey: "2025-02-10"},
		{CreateParams: transaction.CreateParams{Type: transaction.TypeIncome, Amount: 5}, DayKey: "2025-02-31"},
	}

	_, err := svc.CreateBatch(context.Background(), uuid.New(), params)
	require.Error(t, err)
	assert.ErrorIs(t, err, transaction.ErrInvalidDayKey)
	assert.Contains(t, err.Error(), "row 2")
}
