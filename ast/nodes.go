package ast

func (*VariableDeclaration) Kind() Kind     { return KindVariableDeclaration }
func (*VariableDeclarator) Kind() Kind      { return "VariableDeclarator" }
func (*FunctionDeclaration) Kind() Kind     { return KindFunctionDeclaration }
func (*ClassDeclaration) Kind() Kind        { return KindClassDeclaration }
func (*ClassMethod) Kind() Kind             { return "ClassMethod" }
func (*ClassProperty) Kind() Kind           { return "ClassProperty" }
func (*ExpressionStatement) Kind() Kind     { return KindExpressionStatement }
func (*BlockStatement) Kind() Kind          { return KindBlockStatement }
func (*EmptyStatement) Kind() Kind          { return KindEmptyStatement }
func (*DebuggerStatement) Kind() Kind       { return KindDebuggerStatement }
func (*ReturnStatement) Kind() Kind         { return KindReturnStatement }
func (*IfStatement) Kind() Kind             { return KindIfStatement }
func (*LabeledStatement) Kind() Kind        { return KindLabeledStatement }
func (*BreakStatement) Kind() Kind          { return KindBreakStatement }
func (*ContinueStatement) Kind() Kind       { return KindContinueStatement }
func (*WhileStatement) Kind() Kind          { return KindWhileStatement }
func (*DoWhileStatement) Kind() Kind        { return KindDoWhileStatement }
func (*ForStatement) Kind() Kind            { return KindForStatement }
func (*ForInStatement) Kind() Kind          { return KindForInStatement }
func (*ForOfStatement) Kind() Kind          { return KindForOfStatement }
func (*SwitchStatement) Kind() Kind         { return KindSwitchStatement }
func (*SwitchCase) Kind() Kind              { return KindSwitchCase }
func (*ThrowStatement) Kind() Kind          { return KindThrowStatement }
func (*TryStatement) Kind() Kind            { return KindTryStatement }
func (*CatchClause) Kind() Kind             { return KindCatchClause }
func (*StringLiteral) Kind() Kind           { return KindStringLiteral }
func (*NumericLiteral) Kind() Kind          { return KindNumericLiteral }
func (*BooleanLiteral) Kind() Kind          { return KindBooleanLiteral }
func (*NullLiteral) Kind() Kind             { return KindNullLiteral }
func (*RegExpLiteral) Kind() Kind           { return KindRegExpLiteral }
func (*Identifier) Kind() Kind              { return KindIdentifier }
func (*ThisExpression) Kind() Kind          { return KindThisExpression }
func (*Super) Kind() Kind                   { return KindSuper }
func (*MetaProperty) Kind() Kind            { return KindMetaProperty }
func (*ArrayExpression) Kind() Kind         { return KindArrayExpression }
func (*ObjectExpression) Kind() Kind        { return KindObjectExpression }
func (*ObjectProperty) Kind() Kind          { return KindObjectProperty }
func (*ObjectMethod) Kind() Kind            { return KindObjectMethod }
func (*SpreadElement) Kind() Kind           { return KindSpreadElement }
func (*FunctionExpression) Kind() Kind      { return KindFunctionExpression }
func (*ArrowFunctionExpression) Kind() Kind { return KindArrowFunctionExpression }
func (*ClassExpression) Kind() Kind         { return KindClassExpression }
func (*TemplateLiteral) Kind() Kind         { return KindTemplateLiteral }
func (*TaggedTemplateExpression) Kind() Kind {
	return KindTaggedTemplateExpression
}
func (*UnaryExpression) Kind() Kind       { return KindUnaryExpression }
func (*UpdateExpression) Kind() Kind      { return KindUpdateExpression }
func (*BinaryExpression) Kind() Kind      { return KindBinaryExpression }
func (*LogicalExpression) Kind() Kind     { return KindLogicalExpression }
func (*AssignmentExpression) Kind() Kind  { return KindAssignmentExpression }
func (*ConditionalExpression) Kind() Kind { return KindConditionalExpression }
func (*CallExpression) Kind() Kind        { return KindCallExpression }
func (*NewExpression) Kind() Kind         { return KindNewExpression }
func (*MemberExpression) Kind() Kind      { return KindMemberExpression }
func (*ChainExpression) Kind() Kind       { return KindChainExpression }
func (*SequenceExpression) Kind() Kind    { return KindSequenceExpression }
func (*YieldExpression) Kind() Kind       { return KindYieldExpression }
func (*AwaitExpression) Kind() Kind       { return KindAwaitExpression }
func (*ObjectPattern) Kind() Kind         { return KindObjectPattern }
func (*ArrayPattern) Kind() Kind          { return KindArrayPattern }
func (*AssignmentPattern) Kind() Kind     { return KindAssignmentPattern }
func (*RestElement) Kind() Kind           { return KindRestElement }

func (*VariableDeclaration) statementNode() {}
func (*FunctionDeclaration) statementNode() {}
func (*ClassDeclaration) statementNode()    {}
func (*ExpressionStatement) statementNode() {}
func (*BlockStatement) statementNode()      {}
func (*EmptyStatement) statementNode()      {}
func (*DebuggerStatement) statementNode()   {}
func (*ReturnStatement) statementNode()     {}
func (*IfStatement) statementNode()         {}
func (*LabeledStatement) statementNode()    {}
func (*BreakStatement) statementNode()      {}
func (*ContinueStatement) statementNode()   {}
func (*WhileStatement) statementNode()      {}
func (*DoWhileStatement) statementNode()    {}
func (*ForStatement) statementNode()        {}
func (*ForInStatement) statementNode()      {}
func (*ForOfStatement) statementNode()      {}
func (*SwitchStatement) statementNode()     {}
func (*ThrowStatement) statementNode()      {}
func (*TryStatement) statementNode()        {}

func (*StringLiteral) expressionNode()            {}
func (*NumericLiteral) expressionNode()           {}
func (*BooleanLiteral) expressionNode()           {}
func (*NullLiteral) expressionNode()              {}
func (*RegExpLiteral) expressionNode()            {}
func (*Identifier) expressionNode()               {}
func (*ThisExpression) expressionNode()           {}
func (*Super) expressionNode()                    {}
func (*MetaProperty) expressionNode()             {}
func (*ArrayExpression) expressionNode()          {}
func (*ObjectExpression) expressionNode()         {}
func (*SpreadElement) expressionNode()            {}
func (*FunctionExpression) expressionNode()       {}
func (*ArrowFunctionExpression) expressionNode()  {}
func (*ClassExpression) expressionNode()          {}
func (*TemplateLiteral) expressionNode()          {}
func (*TaggedTemplateExpression) expressionNode() {}
func (*UnaryExpression) expressionNode()          {}
func (*UpdateExpression) expressionNode()         {}
func (*BinaryExpression) expressionNode()         {}
func (*LogicalExpression) expressionNode()        {}
func (*AssignmentExpression) expressionNode()     {}
func (*ConditionalExpression) expressionNode()    {}
func (*CallExpression) expressionNode()           {}
func (*NewExpression) expressionNode()            {}
func (*MemberExpression) expressionNode()         {}
func (*ChainExpression) expressionNode()          {}
func (*SequenceExpression) expressionNode()       {}
func (*YieldExpression) expressionNode()          {}
func (*AwaitExpression) expressionNode()          {}
func (*ObjectPattern) expressionNode()            {}
func (*ArrayPattern) expressionNode()             {}
func (*AssignmentPattern) expressionNode()        {}
func (*RestElement) expressionNode()              {}

func (*ClassMethod) classMember()   {}
func (*ClassProperty) classMember() {}

// EvaluatedKinds lists every kind the evaluator is expected to dispatch on.
// VariableDeclarator, ClassMethod and ClassProperty are handled inline by
// their parents and never dispatched.
func EvaluatedKinds() []Kind {
	return []Kind{
		KindProgram,
		KindVariableDeclaration, KindFunctionDeclaration, KindClassDeclaration,
		KindExpressionStatement, KindBlockStatement, KindEmptyStatement, KindDebuggerStatement,
		KindReturnStatement, KindIfStatement, KindLabeledStatement, KindBreakStatement,
		KindContinueStatement, KindWhileStatement, KindDoWhileStatement, KindForStatement,
		KindForInStatement, KindForOfStatement, KindSwitchStatement, KindSwitchCase,
		KindThrowStatement, KindTryStatement, KindCatchClause,
		KindStringLiteral, KindNumericLiteral, KindBooleanLiteral, KindNullLiteral, KindRegExpLiteral,
		KindIdentifier, KindThisExpression, KindSuper, KindMetaProperty, KindArrayExpression,
		KindObjectExpression, KindObjectProperty, KindObjectMethod, KindSpreadElement,
		KindFunctionExpression, KindArrowFunctionExpression, KindClassExpression,
		KindTemplateLiteral, KindTaggedTemplateExpression, KindUnaryExpression,
		KindUpdateExpression, KindBinaryExpression, KindLogicalExpression,
		KindAssignmentExpression, KindConditionalExpression, KindCallExpression,
		KindNewExpression, KindMemberExpression, KindChainExpression, KindSequenceExpression,
		KindYieldExpression, KindAwaitExpression,
		KindObjectPattern, KindArrayPattern, KindAssignmentPattern, KindRestElement,
	}
}
