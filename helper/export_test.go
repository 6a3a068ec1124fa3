package helper

var ConnectionString = connectionString
