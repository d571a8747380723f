package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type SubscriptionPlan string

const (
	SubscriptionPlanFree  SubscriptionPlan = "free"
	SubscriptionPlanBasic SubscriptionPlan = "basic"
	SubscriptionPlanPro   SubscriptionPlan = "pro"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

type OrderEvent string

const (
	OrderEventConfirm  OrderEvent = "confirm"
	OrderEventComplete OrderEvent = "complete"
	OrderEventCancel   OrderEvent = "cancel"
)

// orderTransitions is the single allowed-transition table for the order
// state machine. Every status change in the coordinator goes through
// NextOrderStatus; no call site compares statuses ad hoc.
var orderTransitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderStatusNew: {
		OrderEventConfirm: OrderStatusConfirmed,
		OrderEventCancel:  OrderStatusCanceled,
	},
	OrderStatusConfirmed: {
		OrderEventComplete: OrderStatusCompleted,
		OrderEventCancel:   OrderStatusCanceled,
	},
}

// NextOrderStatus resolves state x event -> state. ok is false when the
// transition is not allowed (terminal states have no outgoing edges).
func NextOrderStatus(current OrderStatus, event OrderEvent) (OrderStatus, bool) {
	events, ok := orderTransitions[current]
	if !ok {
		return "", false
	}
	next, ok := events[event]
	return next, ok
}

type DraftOrderStatus string

const (
	DraftOrderStatusDraft     DraftOrderStatus = "draft"
	DraftOrderStatusConfirmed DraftOrderStatus = "confirmed"
	DraftOrderStatusRejected  DraftOrderStatus = "rejected"
)

// LedgerEntryType encodes the direction of a bookkeeping amount; amounts
// themselves are always non-negative.
type LedgerEntryType string

const (
	LedgerEntryTypeRevenue      LedgerEntryType = "revenue"
	LedgerEntryTypeExpense      LedgerEntryType = "expense"
	LedgerEntryTypeDebtIn       LedgerEntryType = "debt_in"
	LedgerEntryTypeDebtOut      LedgerEntryType = "debt_out"
	LedgerEntryTypePaymentIn    LedgerEntryType = "payment_in"
	LedgerEntryTypePaymentOut   LedgerEntryType = "payment_out"
	LedgerEntryTypeInventoryIn  LedgerEntryType = "inventory_in"
	LedgerEntryTypeInventoryOut LedgerEntryType = "inventory_out"
)

// MovementRefType names the event that caused an inventory movement.
type MovementRefType string

const (
	MovementRefOrder       MovementRefType = "order"
	MovementRefOrderCancel MovementRefType = "order_cancel"
	MovementRefImport      MovementRefType = "import"
	MovementRefAdjustment  MovementRefType = "adjustment"
	MovementRefReturn      MovementRefType = "return"
)

type LedgerRefType string

const (
	LedgerRefOrder     LedgerRefType = "order"
	LedgerRefPayment   LedgerRefType = "payment"
	LedgerRefInventory LedgerRefType = "inventory"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
)

// permissions per role, checked by handlers before calling workflows
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"manage_owners",
		"manage_subscriptions",
		"view_system_reports",
	},
	RoleOwner: {
		"manage_store",
		"manage_products",
		"manage_inventory",
		"manage_customers",
		"manage_employees",
		"create_orders",
		"view_orders",
		"manage_orders",
		"view_reports",
		"manage_debt",
		"confirm_draft_orders",
	},
	RoleEmployee: {
		"create_orders",
		"view_orders",
		"view_products",
		"view_customers",
		"confirm_draft_orders",
	},
}

func HasPermission(role Role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func GetPermissions(role Role) []string {
	return rolePermissions[role]
}
