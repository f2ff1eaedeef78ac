// Package appsource is the "Application Source" collaborator: it supplies
// approved travel applications (roster, itinerary, corporate bookings) that a
// reimbursement document imports from. The shipped implementation serves a
// fixed pool with simulated fetch latency in place of a real upstream system.
package appsource

import "github.com/garyjia/travel-settlement/internal/models"

// Application is an approved travel application as returned by the source.
// Segments may arrive without per-diem fields and without lead/assignment
// sentinels; Populate fills those in.
type Application struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Date              string                 `json:"date"`
	Travelers         []models.Traveler      `json:"travelers"`
	Segments          []models.TripSegment   `json:"segments"`
	CorporateExpenses []models.ExpenseRecord `json:"corporate_expenses"`
}

// BuiltinPool returns the shipped application pool.
func BuiltinPool() []Application {
	return []Application{
		{
			ID:    "TRIP-INT-2024-US001",
			Title: "1月CES展会及北美客户拜访",
			Date:  "2024-01-02",
			Travelers: []models.Traveler{
				{ID: "U1", Name: "张三", Level: "M2", IsLead: true, Passport: "E12345678", BankAccount: "6222 0210 **** 8888", BankName: "招商银行北京分行"},
				{ID: "U2", Name: "李四", Level: "P5", Passport: "E87654321", BankAccount: "6217 0001 **** 1234", BankName: "建设银行上海分行"},
			},
			Segments: []models.TripSegment{
				{ID: 101, FromCountry: "中国", FromCity: "北京", ToCountry: "美国", ToCity: "拉斯维加斯", StartDate: "2024-01-08", EndDate: "2024-01-12", TravelerIDs: []string{"U1", "U2"}},
				{ID: 102, FromCountry: "美国", FromCity: "拉斯维加斯", ToCountry: "美国", ToCity: "旧金山", StartDate: "2024-01-12", EndDate: "2024-01-15", IsChartered: true, BusinessMeals: 2, TravelerIDs: []string{"U1", "U2"}},
			},
			CorporateExpenses: []models.ExpenseRecord{
				{ID: 201, Source: models.SourceCorporate, Category: "交通", Type: "国际机票", Date: "2024-01-08", Currency: "CNY", ExchangeRate: 1.0, OriginalAmount: 12500.00, HomeAmount: 12500.00, ConsumerID: "U1", PayeeID: "CORP", Description: "北京-拉斯维加斯 (UA889) 商旅预订", Receipt: true},
				{ID: 202, Source: models.SourceCorporate, Category: "住宿", Type: "酒店", Date: "2024-01-08", Currency: "USD", ExchangeRate: 7.23, OriginalAmount: 800.00, HomeAmount: 5784.00, ConsumerID: "U1", PayeeID: "CORP", Description: "拉斯维加斯酒店 (商旅预付)", Receipt: true},
			},
		},
		{
			ID:    "TRIP-INT-2024-EU002",
			Title: "2月欧洲研发中心调研",
			Date:  "2024-02-15",
			Travelers: []models.Traveler{
				{ID: "U3", Name: "王五", Level: "M3", IsLead: true, Passport: "E99988877", BankAccount: "6222 0000 **** 6666", BankName: "工商银行深圳分行"},
				{ID: "U4", Name: "赵六", Level: "P6", Passport: "E55544433", BankAccount: "6217 1111 **** 2222", BankName: "中国银行上海分行"},
				{ID: "U5", Name: "孙七", Level: "P5", Passport: "E11122233", BankAccount: "6227 0033 **** 1122", BankName: "建设银行北京分行"},
			},
			Segments: []models.TripSegment{
				{ID: 103, FromCountry: "中国", FromCity: "上海", ToCountry: "德国", ToCity: "法兰克福", StartDate: "2024-02-20", EndDate: "2024-02-21", TravelerIDs: []string{"U3", "U4", "U5"}},
				{ID: 104, FromCountry: "德国", FromCity: "法兰克福", ToCountry: "法国", ToCity: "巴黎", StartDate: "2024-02-21", EndDate: "2024-02-25", TravelerIDs: []string{"U3", "U4", "U5"}},
			},
		},
	}
}
