package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/printchain/backend/internal/domain/billing"
	"github.com/printchain/backend/internal/domain/job"
	"github.com/printchain/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Mock implementations

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepository) FindByJobNo(ctx context.Context, jobNo string) (*job.Job, error) {
	args := m.Called(ctx, jobNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockJobRepository) FindPage(ctx context.Context, page, pageSize int) ([]job.Job, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockJobRepository) Save(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *mockJobRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobRepository) ExistsByJobNo(ctx context.Context, jobNo string) (bool, error) {
	args := m.Called(ctx, jobNo)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobRepository) GenerateJobNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *mockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

func (m *mockPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

func (m *mockPurchaseOrderRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]billing.PurchaseOrder, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PurchaseOrder), args.Error(1)
}

func (m *mockPurchaseOrderRepository) FindCanonicalForLeg(ctx context.Context, jobID uuid.UUID, leg billing.Leg) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, jobID, leg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

func (m *mockPurchaseOrderRepository) SumVendorAmountForLeg(ctx context.Context, jobID uuid.UUID, leg billing.Leg) (decimal.Decimal, error) {
	args := m.Called(ctx, jobID, leg)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PurchaseOrder), args.Error(1)
}

func (m *mockPurchaseOrderRepository) Save(ctx context.Context, po *billing.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *mockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPurchaseOrderRepository) ExistsByPONumber(ctx context.Context, poNumber string) (bool, error) {
	args := m.Called(ctx, poNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockInvoiceRepository struct {
	mock.Mock
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindCanonicalForLeg(ctx context.Context, jobID uuid.UUID, leg billing.InvoiceLeg) (*billing.Invoice, error) {
	args := m.Called(ctx, jobID, leg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInvoiceRepository) ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	args := m.Called(ctx, invoiceNo)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockSyncLogRepository struct {
	mock.Mock
}

func (m *mockSyncLogRepository) Append(ctx context.Context, log *billing.SyncLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockSyncLogRepository) FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	args := m.Called(ctx, jobID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SyncLog), args.Error(1)
}

func (m *mockSyncLogRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	args := m.Called(ctx, purchaseOrderID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SyncLog), args.Error(1)
}

func (m *mockSyncLogRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID, filter shared.Filter) ([]billing.SyncLog, error) {
	args := m.Called(ctx, invoiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SyncLog), args.Error(1)
}

func (m *mockSyncLogRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPurchaseOrderFactory struct {
	mock.Mock
}

func (m *mockPurchaseOrderFactory) CreateAutoPurchaseOrder(ctx context.Context, j *job.Job, leg billing.Leg, originalAmount, vendorAmount decimal.Decimal) (*billing.PurchaseOrder, error) {
	args := m.Called(ctx, j, leg, originalAmount, vendorAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PurchaseOrder), args.Error(1)
}

type mockDocumentRenderer struct {
	mock.Mock
}

func (m *mockDocumentRenderer) RenderInvoice(ctx context.Context, invoiceID uuid.UUID) (string, error) {
	args := m.Called(ctx, invoiceID)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, recipient, subject, body string, attachments []string) error {
	args := m.Called(ctx, recipient, subject, body, attachments)
	return args.Error(0)
}

// Test fixtures

func newTestJob(customerTotal float64) *job.Job {
	j, err := job.NewJob("JOB-2026-00001", uuid.New(),
		decimal.NewFromFloat(customerTotal),
		decimal.NewFromInt(0), decimal.NewFromInt(0),
		false, false)
	if err != nil {
		panic(err)
	}
	j.ClearDomainEvents()
	return j
}

func newTestPOForJob(jobID uuid.UUID, leg billing.Leg, original, vendor float64) *billing.PurchaseOrder {
	target := leg.Target
	po, err := billing.NewPurchaseOrder("PO-2026-00001", &jobID, leg.Origin, &target, nil,
		decimal.NewFromFloat(original), decimal.NewFromFloat(vendor), decimal.NewFromFloat(original-vendor))
	if err != nil {
		panic(err)
	}
	po.ClearDomainEvents()
	return po
}

func newTestInvoiceForJob(jobID uuid.UUID, leg billing.InvoiceLeg, amount float64) *billing.Invoice {
	inv, err := billing.NewInvoice("INV-2026-00001", &jobID, leg.From, leg.To,
		decimal.NewFromFloat(amount), nil)
	if err != nil {
		panic(err)
	}
	inv.ClearDomainEvents()
	return inv
}
