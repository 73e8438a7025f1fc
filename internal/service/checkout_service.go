package service

import (
	"context"
	"sync"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/checkout"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/metrics"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/rs/zerolog/log"
)

// CheckoutService drives the scanning screen: it resolves products against
// the backend and feeds the results into the session. A failed remote call
// never touches the cart.
type CheckoutService interface {
	Search(ctx context.Context, term string) (*dto.ProductListResponse, error)
	AddProduct(ctx context.Context, req dto.AddItemRequest) (*dto.CartResponse, error)
	Scan(ctx context.Context, data string) (*dto.ScanResponse, error)
	RemoveItem(lineID int) (*dto.CartResponse, error)
	UpdateItemTotal(lineID int, raw string) (*dto.CartResponse, error)
	SetCashTendered(raw string) (*dto.CartResponse, error)
	SetTotalOverride(raw string) (*dto.CartResponse, error)
	SetPickQuantity(qty int) (*dto.CartResponse, error)
	SelectProduct(productID string) (*dto.CartResponse, error)
	Cart() *dto.CartResponse
	Purchase(ctx context.Context, req dto.PurchaseCheckoutRequest) (*dto.PurchaseResponse, error)
	Clear() *dto.CartResponse
}

type checkoutService struct {
	backend  Backend
	session  *checkout.Session
	gate     *checkout.ScanGate
	catalog  *Catalog
	notifier Notifier
	receipts ReceiptService
	userID   string

	// purchaseMu serializes submissions only. Scans still land while a
	// purchase is in flight, and the ClearCart after a successful sale
	// drops them unsold; the cashier rescans.
	purchaseMu sync.Mutex
}

func NewCheckoutService(
	backend Backend,
	session *checkout.Session,
	gate *checkout.ScanGate,
	catalog *Catalog,
	notifier Notifier,
	receipts ReceiptService,
	userID string,
) CheckoutService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &checkoutService{
		backend:  backend,
		session:  session,
		gate:     gate,
		catalog:  catalog,
		notifier: notifier,
		receipts: receipts,
		userID:   userID,
	}
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *checkoutService) Search(ctx context.Context, term string) (*dto.ProductListResponse, error) {
	products, err := s.backend.SearchProducts(ctx, term)
	if err != nil {
		return nil, err
	}
	s.catalog.Replace(products)
	return &dto.ProductListResponse{Data: products, Total: len(products)}, nil
}

// AddProduct is the manual "add to cart" of the product picker. The product
// comes from the last search; unknown ids are looked up.
func (s *checkoutService) AddProduct(ctx context.Context, req dto.AddItemRequest) (*dto.CartResponse, error) {
	p, found := s.catalog.Find(req.ProductID)
	if !found {
		var err error
		if p, err = s.backend.LookupProduct(ctx, req.ProductID); err != nil {
			return nil, s.warn(err)
		}
	}
	out, err := s.session.Dispatch(checkout.AddItem{
		Product:  p,
		Source:   checkout.SourceManual,
		Quantity: req.Quantity,
	})
	if err != nil {
		return nil, s.warn(err)
	}
	return s.cartWith(out), nil
}

// ── Scanning ─────────────────────────────────────────────────────────────────

// Scan handles one decoded QR/barcode. Scans arriving while another one is in
// flight or cooling down are ignored.
func (s *checkoutService) Scan(ctx context.Context, data string) (*dto.ScanResponse, error) {
	if !s.gate.TryAcquire() {
		metrics.ScansTotal.WithLabelValues("", metrics.ScanIgnored).Inc()
		return &dto.ScanResponse{Ignored: true}, nil
	}
	defer s.gate.Release()

	payload := checkout.ParsePayload(data)
	kind := payload.Kind.String()

	var (
		resp *dto.ScanResponse
		err  error
	)
	if payload.Kind == checkout.PayloadCart {
		resp, err = s.scanCart(ctx, payload)
	} else {
		resp, err = s.scanSingle(ctx, payload)
	}
	metrics.ScansTotal.WithLabelValues(kind, scanOutcome(err)).Inc()
	if err != nil {
		log.Info().Str("kind", kind).Str("reason", apierror.Message(err)).Msg("scan rejected")
		return nil, s.warn(err)
	}
	resp.Kind = kind
	return resp, nil
}

func (s *checkoutService) scanSingle(ctx context.Context, payload checkout.Payload) (*dto.ScanResponse, error) {
	p, err := s.backend.LookupProduct(ctx, payload.LookupKey)
	if err != nil {
		return nil, err
	}
	out, err := s.session.Dispatch(checkout.AddItem{Product: p, Source: checkout.SourceScan})
	if err != nil {
		return nil, err
	}
	return &dto.ScanResponse{Cart: s.cartWith(out)}, nil
}

func (s *checkoutService) scanCart(ctx context.Context, payload checkout.Payload) (*dto.ScanResponse, error) {
	// Checked again under the session lock by AddScanned; this early check
	// only saves the lookups.
	if s.session.Snapshot().SignatureBlocked(payload.Signature) {
		return nil, apierror.Duplicate("These items are already in the cart")
	}

	var (
		items      []checkout.ScannedItem
		unresolved []string
		lookupErr  error
	)
	for _, e := range payload.Entries {
		if e.Quantity <= 0 {
			continue
		}
		p, err := s.backend.LookupProduct(ctx, e.ProductID)
		if err != nil {
			log.Info().Str("product_id", e.ProductID).Err(err).Msg("cart payload: product not resolved")
			unresolved = append(unresolved, e.ProductID)
			if lookupErr == nil {
				lookupErr = err
			}
			continue
		}
		items = append(items, checkout.ScannedItem{Product: p, Quantity: e.Quantity})
	}
	if len(items) == 0 {
		if apierror.KindOf(lookupErr) == apierror.KindNetwork {
			return nil, lookupErr
		}
		return nil, apierror.NotFound("Product not found")
	}

	out, err := s.session.Dispatch(checkout.AddScanned{Signature: payload.Signature, Items: items})
	if err != nil {
		return nil, err
	}
	for _, w := range out.Warnings {
		s.notifier.Warn(w)
	}
	return &dto.ScanResponse{Cart: s.cartWith(out), Unresolved: unresolved}, nil
}

func scanOutcome(err error) string {
	if err == nil {
		return metrics.ScanAdded
	}
	switch apierror.KindOf(err) {
	case apierror.KindDuplicate:
		return metrics.ScanDuplicate
	case apierror.KindNotFound:
		return metrics.ScanNotFound
	default:
		return metrics.ScanFailed
	}
}

// ── Cart edits ───────────────────────────────────────────────────────────────

func (s *checkoutService) RemoveItem(lineID int) (*dto.CartResponse, error) {
	return s.dispatch(checkout.RemoveItem{LineID: lineID})
}

func (s *checkoutService) UpdateItemTotal(lineID int, raw string) (*dto.CartResponse, error) {
	return s.dispatch(checkout.UpdateItemTotal{LineID: lineID, Raw: raw})
}

func (s *checkoutService) SetCashTendered(raw string) (*dto.CartResponse, error) {
	return s.dispatch(checkout.SetCashTendered{Raw: raw})
}

func (s *checkoutService) SetTotalOverride(raw string) (*dto.CartResponse, error) {
	return s.dispatch(checkout.SetTotalOverride{Raw: raw})
}

func (s *checkoutService) SetPickQuantity(qty int) (*dto.CartResponse, error) {
	return s.dispatch(checkout.SetPickQuantity{Quantity: qty})
}

// SelectProduct selects a product of the last search. Empty id clears it.
func (s *checkoutService) SelectProduct(productID string) (*dto.CartResponse, error) {
	if productID == "" {
		return s.dispatch(checkout.SelectProduct{})
	}
	p, ok := s.catalog.Find(productID)
	if !ok {
		return nil, apierror.NotFound("Product not found")
	}
	return s.dispatch(checkout.SelectProduct{Product: &p})
}

func (s *checkoutService) Cart() *dto.CartResponse {
	return s.cartWith(checkout.Outcome{})
}

func (s *checkoutService) Clear() *dto.CartResponse {
	out, _ := s.session.Dispatch(checkout.ClearCart{})
	return s.cartWith(out)
}

func (s *checkoutService) dispatch(cmd checkout.Command) (*dto.CartResponse, error) {
	out, err := s.session.Dispatch(cmd)
	if err != nil {
		return nil, s.warn(err)
	}
	return s.cartWith(out), nil
}

// ── Purchase ─────────────────────────────────────────────────────────────────
// Validates locally (nothing invalid reaches the network), submits with money
// rounded to 2 dp, issues the receipt and clears the cart. A failed submission
// leaves the cart as it was.

func (s *checkoutService) Purchase(ctx context.Context, req dto.PurchaseCheckoutRequest) (*dto.PurchaseResponse, error) {
	s.purchaseMu.Lock()
	defer s.purchaseMu.Unlock()

	st := s.session.Snapshot()
	totals := st.Totals()
	switch {
	case st.Empty():
		return nil, s.purchaseInvalid("Cart is empty")
	case !totals.CashProvided:
		return nil, s.purchaseInvalid("Please enter the cash amount")
	case totals.Insufficient:
		return nil, s.purchaseInvalid("Insufficient cash")
	}

	lines := st.Lines()
	items := make([]dto.PurchaseItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.PurchaseItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     model.RoundMoney(l.SellPrice),
			CostPrice: model.RoundMoney(l.CostPrice),
		})
	}
	total := model.RoundMoney(totals.DisplayedTotal)
	cash := model.RoundMoney(totals.CashTendered)

	res, err := s.backend.SubmitPurchase(ctx, dto.PurchaseRequest{
		Items:        items,
		CashTendered: cash,
		TotalAmount:  total,
		UserID:       s.userID,
	})
	if err != nil {
		outcome := metrics.PurchaseFailed
		if apierror.KindOf(err) == apierror.KindBusiness {
			outcome = metrics.PurchaseRejected
		}
		metrics.PurchasesTotal.WithLabelValues(outcome).Inc()
		log.Warn().Err(err).Int("items", len(items)).Msg("purchase failed")
		return nil, s.warn(err)
	}
	metrics.PurchasesTotal.WithLabelValues(metrics.PurchaseAccepted).Inc()

	change := cash.Sub(total)
	if res.ChangeDue.Valid {
		change = res.ChangeDue.Decimal
	}
	timestamp := res.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format("2006-01-02 15:04:05")
	}
	ref := res.Reference()
	log.Info().Str("transaction_id", ref).Str("total", total.StringFixed(2)).Msg("purchase accepted")

	var receiptPath string
	if s.receipts != nil {
		email := ""
		if req.CustomerEmail != nil {
			email = *req.CustomerEmail
		}
		receiptPath = s.receipts.Issue(ctx, model.Receipt{
			TransactionID: ref,
			Timestamp:     timestamp,
			Items:         lines,
			Total:         total,
			CashTendered:  cash,
			Change:        change,
		}, email)
	}

	s.session.Dispatch(checkout.ClearCart{})

	return &dto.PurchaseResponse{
		TransactionID: ref,
		Total:         total,
		CashTendered:  cash,
		Change:        change,
		ReceiptPath:   receiptPath,
	}, nil
}

func (s *checkoutService) purchaseInvalid(msg string) error {
	metrics.PurchasesTotal.WithLabelValues(metrics.PurchaseInvalid).Inc()
	return s.warn(apierror.Validation(msg))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// warn surfaces err to the cashier and returns it unchanged.
func (s *checkoutService) warn(err error) error {
	s.notifier.Warn(apierror.Message(err))
	return err
}

func (s *checkoutService) cartWith(out checkout.Outcome) *dto.CartResponse {
	if out.Acknowledged {
		s.notifier.Acknowledge()
	}
	st := s.session.Snapshot()
	resp := &dto.CartResponse{
		SessionID:         s.session.ID().String(),
		Lines:             st.Lines(),
		Totals:            st.Totals(),
		CashTendered:      st.CashTendered(),
		TotalOverride:     st.TotalOverride(),
		PickQuantity:      st.PickQuantity(),
		TrackedSignatures: st.TrackedCount(),
		Acknowledged:      out.Acknowledged,
		Warnings:          out.Warnings,
		Released:          out.Released,
	}
	if p, ok := st.Selected(); ok {
		resp.Selected = &p
	}
	return resp
}
