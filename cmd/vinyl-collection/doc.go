// Command vinyl-collection keeps a local CSV dataset of the 12-inch vinyl in
// a Discogs collection up to date, then searches and serves it.
//
// Commands:
//
//	vinyl-collection sync          merge new releases into the dataset
//	vinyl-collection search        filter the dataset from the terminal
//	vinyl-collection serve         run the browsing UI
//	vinyl-collection config init   write a sample configuration file
package main
