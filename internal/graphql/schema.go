package graphql

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
)

var (
	errUnauthorized = errors.New("authentication required")
	errForbidden    = errors.New("insufficient role")
)

// resolver holds the services the schema resolves against.
type resolver struct {
	finance  interfaces.FinanceService
	identity interfaces.IdentityService
	logger   *common.Logger
}

func (rs *resolver) requireIdentity(p graphql.ResolveParams) (*common.Identity, error) {
	id := common.IdentityFromContext(p.Context)
	if id == nil {
		return nil, errUnauthorized
	}
	return id, nil
}

func (rs *resolver) requireRole(p graphql.ResolveParams, role string) (*common.Identity, error) {
	id, err := rs.requireIdentity(p)
	if err != nil {
		return nil, err
	}
	if !id.HasRole(role) {
		return nil, errForbidden
	}
	return id, nil
}

func argString(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func argBool(p graphql.ResolveParams, name string) bool {
	b, _ := p.Args[name].(bool)
	return b
}

func argDecimal(p graphql.ResolveParams, name string) decimal.Decimal {
	d, _ := p.Args[name].(decimal.Decimal)
	return d
}

func argTime(p graphql.ResolveParams, name string) time.Time {
	t, _ := p.Args[name].(time.Time)
	return t
}

// newSchema builds the executable schema over the resolver.
func newSchema(rs *resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireRole(p, models.RoleAdmin); err != nil {
						return nil, err
					}
					return rs.identity.ListUsers(p.Context)
				},
			},
			"roles": &graphql.Field{
				Type: graphql.NewList(roleType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireRole(p, models.RoleAdmin); err != nil {
						return nil, err
					}
					return rs.identity.ListRoles(p.Context)
				},
			},
			"financeAccounts": &graphql.Field{
				Type: graphql.NewList(financeAccountType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					return rs.finance.ListAccounts(p.Context)
				},
			},
			"financeAccount": &graphql.Field{
				Type: financeAccountType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					return rs.finance.GetAccount(p.Context, argString(p, "id"))
				},
			},
			"financeAccountsByUser": &graphql.Field{
				Type: graphql.NewList(financeAccountType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					return rs.finance.ListAccountsByUser(p.Context, argString(p, "userId"))
				},
			},
			"transactions": &graphql.Field{
				Type: graphql.NewList(transactionType),
				Args: graphql.FieldConfigArgument{
					"accountId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if accountID := argString(p, "accountId"); accountID != "" {
						return rs.finance.ListTransactionsByAccount(p.Context, accountID)
					}
					return rs.finance.ListTransactions(p.Context)
				},
			},
			"budgets": &graphql.Field{
				Type: graphql.NewList(budgetType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if userID := argString(p, "userId"); userID != "" {
						return rs.finance.ListBudgetsByUser(p.Context, userID)
					}
					return rs.finance.ListBudgets(p.Context)
				},
			},
			"goals": &graphql.Field{
				Type: graphql.NewList(goalType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if userID := argString(p, "userId"); userID != "" {
						return rs.finance.ListGoalsByUser(p.Context, userID)
					}
					return rs.finance.ListGoals(p.Context)
				},
			},
			"investments": &graphql.Field{
				Type: graphql.NewList(investmentType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if userID := argString(p, "userId"); userID != "" {
						return rs.finance.ListInvestmentsByUser(p.Context, userID)
					}
					return rs.finance.ListInvestments(p.Context)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			// --- Account lifecycle ---
			"register": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rs.identity.Register(p.Context, argString(p, "email"), argString(p, "password"))
				},
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					token, user, err := rs.identity.Login(p.Context, argString(p, "email"), argString(p, "password"))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"token": token, "user": user}, nil
				},
			},
			"logout": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := rs.requireIdentity(p)
					if err != nil {
						return nil, err
					}
					rs.logger.Info().Str("user_id", id.UserID).Msg("User signed out")
					return true, nil
				},
			},
			"changePassword": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"newPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := rs.requireIdentity(p)
					if err != nil {
						return nil, err
					}
					if err := rs.identity.ChangePassword(p.Context, id.Email, argString(p, "newPassword")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Finance accounts ---
			"createFinanceAccount": &graphql.Field{
				Type: financeAccountType,
				Args: graphql.FieldConfigArgument{
					"accountName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"accountType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"userId":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					account := &models.FinanceAccount{
						AccountName: argString(p, "accountName"),
						AccountType: argString(p, "accountType"),
						UserID:      argString(p, "userId"),
					}
					if err := rs.finance.CreateAccount(p.Context, account); err != nil {
						return nil, err
					}
					return account, nil
				},
			},
			"updateFinanceAccount": &graphql.Field{
				Type: financeAccountType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"accountName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"accountType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					account := &models.FinanceAccount{
						ID:          argString(p, "id"),
						AccountName: argString(p, "accountName"),
						AccountType: argString(p, "accountType"),
					}
					if err := rs.finance.UpdateAccount(p.Context, account); err != nil {
						return nil, err
					}
					return account, nil
				},
			},
			"deleteFinanceAccount": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if err := rs.finance.DeleteAccount(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Transactions ---
			"createTransaction": &graphql.Field{
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"description":      &graphql.ArgumentConfig{Type: graphql.String},
					"amount":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"date":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"category":         &graphql.ArgumentConfig{Type: graphql.String},
					"isExpense":        &graphql.ArgumentConfig{Type: graphql.Boolean},
					"financeAccountId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					tx := &models.Transaction{
						Description:      argString(p, "description"),
						Amount:           argDecimal(p, "amount"),
						Date:             argTime(p, "date"),
						Category:         argString(p, "category"),
						IsExpense:        argBool(p, "isExpense"),
						FinanceAccountID: argString(p, "financeAccountId"),
					}
					if err := rs.finance.CreateTransaction(p.Context, tx); err != nil {
						return nil, err
					}
					return tx, nil
				},
			},
			"updateTransaction": &graphql.Field{
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"amount":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"date":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"category":    &graphql.ArgumentConfig{Type: graphql.String},
					"isExpense":   &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					tx := &models.Transaction{
						ID:          argString(p, "id"),
						Description: argString(p, "description"),
						Amount:      argDecimal(p, "amount"),
						Date:        argTime(p, "date"),
						Category:    argString(p, "category"),
						IsExpense:   argBool(p, "isExpense"),
					}
					if err := rs.finance.UpdateTransaction(p.Context, tx); err != nil {
						return nil, err
					}
					return tx, nil
				},
			},
			"deleteTransaction": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if err := rs.finance.DeleteTransaction(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Budgets ---
			"createBudget": &graphql.Field{
				Type: budgetType,
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"userId":   &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					budget := &models.Budget{
						Category: argString(p, "category"),
						Limit:    argDecimal(p, "limit"),
					}
					if userID := argString(p, "userId"); userID != "" {
						budget.UserID = &userID
					}
					if err := rs.finance.CreateBudget(p.Context, budget); err != nil {
						return nil, err
					}
					return budget, nil
				},
			},
			"updateBudget": &graphql.Field{
				Type: budgetType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					budget := &models.Budget{
						ID:       argString(p, "id"),
						Category: argString(p, "category"),
						Limit:    argDecimal(p, "limit"),
					}
					if err := rs.finance.UpdateBudget(p.Context, budget); err != nil {
						return nil, err
					}
					return budget, nil
				},
			},
			"deleteBudget": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if err := rs.finance.DeleteBudget(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Goals ---
			"createGoal": &graphql.Field{
				Type: goalType,
				Args: graphql.FieldConfigArgument{
					"goalTitle":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"targetAmount":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"currentAmount": &graphql.ArgumentConfig{Type: decimalType},
					"targetDate":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"userId":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					goal := &models.Goal{
						GoalTitle:     argString(p, "goalTitle"),
						TargetAmount:  argDecimal(p, "targetAmount"),
						CurrentAmount: argDecimal(p, "currentAmount"),
						TargetDate:    argTime(p, "targetDate"),
						UserID:        argString(p, "userId"),
					}
					if err := rs.finance.CreateGoal(p.Context, goal); err != nil {
						return nil, err
					}
					return goal, nil
				},
			},
			"updateGoal": &graphql.Field{
				Type: goalType,
				Args: graphql.FieldConfigArgument{
					"id":            &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"goalTitle":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"targetAmount":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"currentAmount": &graphql.ArgumentConfig{Type: decimalType},
					"targetDate":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					goal := &models.Goal{
						ID:            argString(p, "id"),
						GoalTitle:     argString(p, "goalTitle"),
						TargetAmount:  argDecimal(p, "targetAmount"),
						CurrentAmount: argDecimal(p, "currentAmount"),
						TargetDate:    argTime(p, "targetDate"),
					}
					if err := rs.finance.UpdateGoal(p.Context, goal); err != nil {
						return nil, err
					}
					return goal, nil
				},
			},
			"deleteGoal": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if err := rs.finance.DeleteGoal(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Investments ---
			"createInvestment": &graphql.Field{
				Type: investmentType,
				Args: graphql.FieldConfigArgument{
					"assetName":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"amountInvested": &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"currentValue":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"purchaseDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
					"userId":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					inv := &models.Investment{
						AssetName:      argString(p, "assetName"),
						AmountInvested: argDecimal(p, "amountInvested"),
						CurrentValue:   argDecimal(p, "currentValue"),
						PurchaseDate:   argTime(p, "purchaseDate"),
						UserID:         argString(p, "userId"),
					}
					if err := rs.finance.CreateInvestment(p.Context, inv); err != nil {
						return nil, err
					}
					return inv, nil
				},
			},
			"updateInvestment": &graphql.Field{
				Type: investmentType,
				Args: graphql.FieldConfigArgument{
					"id":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"assetName":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"amountInvested": &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"currentValue":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalType)},
					"purchaseDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.DateTime)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					inv := &models.Investment{
						ID:             argString(p, "id"),
						AssetName:      argString(p, "assetName"),
						AmountInvested: argDecimal(p, "amountInvested"),
						CurrentValue:   argDecimal(p, "currentValue"),
						PurchaseDate:   argTime(p, "purchaseDate"),
					}
					if err := rs.finance.UpdateInvestment(p.Context, inv); err != nil {
						return nil, err
					}
					return inv, nil
				},
			},
			"deleteInvestment": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireIdentity(p); err != nil {
						return nil, err
					}
					if err := rs.finance.DeleteInvestment(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},

			// --- Administration ---
			"createRole": &graphql.Field{
				Type: roleType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireRole(p, models.RoleAdmin); err != nil {
						return nil, err
					}
					return rs.identity.CreateRole(p.Context, argString(p, "name"))
				},
			},
			"assignRole": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"userId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"roleName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireRole(p, models.RoleAdmin); err != nil {
						return nil, err
					}
					if err := rs.identity.AssignRole(p.Context, argString(p, "userId"), argString(p, "roleName")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := rs.requireRole(p, models.RoleAdmin); err != nil {
						return nil, err
					}
					if err := rs.identity.DeleteUser(p.Context, argString(p, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
