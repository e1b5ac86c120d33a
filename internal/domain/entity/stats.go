package entity

// DashboardStats aggregates a teacher's classes
type DashboardStats struct {
	TotalStudents     int64  `json:"totalStudents"`
	TotalFunds        int64  `json:"totalFunds"`
	AverageBalance    int64  `json:"averageBalance"`
	AverageExact      string `json:"averageBalanceExact"`
	PendingRequests   int64  `json:"pendingRequests"`
	ApprovedToday     int64  `json:"approvedToday"`
	TotalTransactions int64  `json:"totalTransactions"`
}

// StudentStats aggregates one student's accounts
type StudentStats struct {
	CurrentBalance  int64    `json:"currentBalance"`
	Currency        Currency `json:"currency"`
	TotalEarned     int64    `json:"totalEarned"`
	TotalSpent      int64    `json:"totalSpent"`
	PendingRequests int64    `json:"pendingRequests"`
}

// ClassStats aggregates one class
type ClassStats struct {
	StudentCount     int64  `json:"studentCount"`
	TotalFunds       int64  `json:"totalFunds"`
	AverageBalance   int64  `json:"averageBalance"`
	AverageExact     string `json:"averageBalanceExact"`
	TransactionCount int64  `json:"transactionCount"`
	PendingRequests  int64  `json:"pendingRequests"`
}

// TeacherOverview summarizes a teacher's recent activity
type TeacherOverview struct {
	ClassCount         int64 `json:"classCount"`
	TotalStudents      int64 `json:"totalStudents"`
	PendingRequests    int64 `json:"pendingRequests"`
	RecentTransactions int64 `json:"recentTransactions"`
}

// BalanceSummary is the raw account aggregate the statistics are built from
type BalanceSummary struct {
	AccountCount int64
	StudentCount int64
	TotalBalance int64
}

// Reconciliation compares an account's stored balance with its ledger
type Reconciliation struct {
	AccountID        string `json:"accountId"`
	Balance          int64  `json:"balance"`
	LedgerSum        int64  `json:"ledgerSum"`
	TransactionCount int64  `json:"transactionCount"`
	Consistent       bool   `json:"consistent"`
}
