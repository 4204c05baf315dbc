// Package graphql exposes the entity operations over a GraphQL endpoint
// backed by the same services as the REST surface.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
)

// decimalType carries money values without float drift. Serialized as a
// decimal string; accepts string, int, and float literals on input.
var decimalType = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "Arbitrary-precision decimal, serialized as a string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case decimal.Decimal:
			return v.String()
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			return v.String()
		default:
			return nil
		}
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil
			}
			return d
		case float64:
			return decimal.NewFromFloat(v)
		case int:
			return decimal.NewFromInt(int64(v))
		default:
			return nil
		}
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch v := valueAST.(type) {
		case *ast.StringValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		case *ast.FloatValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		case *ast.IntValue:
			d, err := decimal.NewFromString(v.Value)
			if err != nil {
				return nil
			}
			return d
		default:
			return nil
		}
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"userName":       &graphql.Field{Type: graphql.String},
		"email":          &graphql.Field{Type: graphql.String},
		"emailConfirmed": &graphql.Field{Type: graphql.Boolean},
		"roles":          &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var roleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Role",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var transactionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Transaction",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"description":      &graphql.Field{Type: graphql.String},
		"amount":           &graphql.Field{Type: decimalType},
		"date":             &graphql.Field{Type: graphql.DateTime},
		"category":         &graphql.Field{Type: graphql.String},
		"isExpense":        &graphql.Field{Type: graphql.Boolean},
		"financeAccountId": &graphql.Field{Type: graphql.ID},
	},
})

var financeAccountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FinanceAccount",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"accountName":  &graphql.Field{Type: graphql.String},
		"accountType":  &graphql.Field{Type: graphql.String},
		"balance":      &graphql.Field{Type: decimalType},
		"userId":       &graphql.Field{Type: graphql.ID},
		"transactions": &graphql.Field{Type: graphql.NewList(transactionType)},
	},
})

var budgetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Budget",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"category": &graphql.Field{Type: graphql.String},
		"limit":    &graphql.Field{Type: decimalType},
		"userId":   &graphql.Field{Type: graphql.ID},
	},
})

var goalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Goal",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"goalTitle":     &graphql.Field{Type: graphql.String},
		"targetAmount":  &graphql.Field{Type: decimalType},
		"currentAmount": &graphql.Field{Type: decimalType},
		"targetDate":    &graphql.Field{Type: graphql.DateTime},
		"userId":        &graphql.Field{Type: graphql.ID},
	},
})

var investmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Investment",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"assetName":      &graphql.Field{Type: graphql.String},
		"amountInvested": &graphql.Field{Type: decimalType},
		"currentValue":   &graphql.Field{Type: decimalType},
		"purchaseDate":   &graphql.Field{Type: graphql.DateTime},
		"userId":         &graphql.Field{Type: graphql.ID},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
		"user":  &graphql.Field{Type: userType},
	},
})
