package repository

var SetClause = setClause
