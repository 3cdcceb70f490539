package odata

// Kind discriminates the shape of a Token's Value. The set is closed:
// adding a new Kind is a breaking change for anything walking the tree,
// per the AST consumption contract.
type Kind string

// Literal and identifier kinds.
const (
	KindLiteral                Kind = "Literal"
	KindODataIdentifier        Kind = "ODataIdentifier"
	KindNamespace              Kind = "Namespace"
	KindQualifiedEntityType    Kind = "QualifiedEntityTypeName"
	KindQualifiedComplexType   Kind = "QualifiedComplexTypeName"
	KindQualifiedEnumType      Kind = "QualifiedEnumTypeName"
	KindQualifiedFunctionName  Kind = "QualifiedFunctionName"
	KindPrimitiveTypeName      Kind = "PrimitiveTypeName"
	KindEnumMember             Kind = "EnumMember"
	KindGeographyCollection    Kind = "GeographyCollection"
	KindGeometryCollection     Kind = "GeometryCollection"
)

// Boolean / logical expressions.
const (
	KindOrExpression  Kind = "OrExpression"
	KindAndExpression Kind = "AndExpression"
	KindNotExpression Kind = "NotExpression"
)

// Comparison expressions.
const (
	KindEqualsExpression              Kind = "EqualsExpression"
	KindNotEqualsExpression           Kind = "NotEqualsExpression"
	KindLesserThanExpression          Kind = "LesserThanExpression"
	KindLesserOrEqualsExpression      Kind = "LesserOrEqualsExpression"
	KindGreaterThanExpression         Kind = "GreaterThanExpression"
	KindGreaterOrEqualsExpression     Kind = "GreaterOrEqualsExpression"
	KindHasExpression                 Kind = "HasExpression"
	KindInExpression                  Kind = "InExpression"
)

// Arithmetic expressions.
const (
	KindAddExpression      Kind = "AddExpression"
	KindSubExpression      Kind = "SubExpression"
	KindMulExpression      Kind = "MulExpression"
	KindDivExpression      Kind = "DivExpression"
	KindDivByExpression    Kind = "DivByExpression"
	KindModExpression      Kind = "ModExpression"
	KindNegateExpression   Kind = "NegateExpression"
)

// Structural / primary expressions.
const (
	KindParenExpression          Kind = "ParenExpression"
	KindFirstMemberExpression    Kind = "FirstMemberExpression"
	KindMemberExpression         Kind = "MemberExpression"
	KindRootExpression           Kind = "RootExpression"
	KindPropertyPathExpression   Kind = "PropertyPathExpression"
	KindCollectionPathExpression Kind = "CollectionPathExpression"
	KindCastExpression           Kind = "CastExpression"
	KindIsofExpression           Kind = "IsofExpression"
)

// Method calls and lambdas.
const (
	KindMethodCallExpression Kind = "MethodCallExpression"
	KindAnyExpression        Kind = "AnyExpression"
	KindAllExpression        Kind = "AllExpression"
	KindLambdaVariable       Kind = "LambdaVariableExpression"
)

// Resource path segments.
const (
	KindResourcePath            Kind = "ResourcePath"
	KindEntitySetName           Kind = "EntitySetName"
	KindSingletonName           Kind = "SingletonName"
	KindKeyPredicate            Kind = "KeyPredicate"
	KindSimpleKey               Kind = "SimpleKey"
	KindCompoundKey             Kind = "CompoundKey"
	KindKeyValuePair            Kind = "KeyValuePair"
	KindCollectionNavigation    Kind = "CollectionNavigation"
	KindSingleNavigation        Kind = "SingleNavigation"
	KindTypeCastSegment         Kind = "TypeCastSegment"
	KindBoundFunctionCall       Kind = "BoundFunctionCall"
	KindBoundActionCall         Kind = "BoundActionCall"
	KindFunctionParameter       Kind = "FunctionParameter"
)

// Query options.
const (
	KindODataURI          Kind = "ODataUri"
	KindQueryOptions       Kind = "QueryOptions"
	KindFilter             Kind = "Filter"
	KindSelect             Kind = "Select"
	KindSelectItem         Kind = "SelectItem"
	KindExpand             Kind = "Expand"
	KindExpandItem         Kind = "ExpandItem"
	KindExpandPath         Kind = "ExpandPath"
	KindOrderBy            Kind = "OrderBy"
	KindOrderByItem        Kind = "OrderByItem"
	KindTop                Kind = "Top"
	KindSkip               Kind = "Skip"
	KindCount              Kind = "Count"
	KindFormat             Kind = "Format"
	KindSkiptoken          Kind = "Skiptoken"
	KindLevels             Kind = "Levels"
	KindInlineCount        Kind = "InlineCount"
	KindCustomQueryOption  Kind = "CustomQueryOption"
)

// $search mini-grammar.
const (
	KindSearch            Kind = "Search"
	KindSearchOrExpression  Kind = "SearchOrExpression"
	KindSearchAndExpression Kind = "SearchAndExpression"
	KindSearchNotExpression Kind = "SearchNotExpression"
	KindSearchPhrase        Kind = "SearchPhrase"
	KindSearchWord          Kind = "SearchWord"
)

// SortDirection records the direction recorded on an OrderByItem.
type SortDirection int

// Sort directions for $orderby items; Ascending is the default when no
// direction keyword is present.
const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}
