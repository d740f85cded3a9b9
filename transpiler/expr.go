package transpiler

// ConvertCondition rewrites a pseudocode boolean condition into JavaScript.
//
//	x > 5 Y y <> 10  ->  x > 5 && y != 10
//	x = 5            ->  x == 5
func ConvertCondition(text string) string {
	return applyRules(conditionRules, text)
}

// ConvertExpression rewrites a pseudocode expression into JavaScript.
//
//	x MOD 2   ->  x % 2
//	azar(6)   ->  Math.floor(Math.random() * (6))
//	2 ^ n     ->  2 ** n
func ConvertExpression(text string) string {
	return applyRules(expressionRules, text)
}
